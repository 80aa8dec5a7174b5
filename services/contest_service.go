package services

import (
	"context"

	"machipower_client/models"
)

// ContestService loads the list of available contests and registers the
// current user's interest in one. Contest listing is the only public
// (unauthenticated) call in the client.
type ContestService struct {
	API *APIClient
}

// LoadContests fetches all available contests.
func (cs *ContestService) LoadContests(ctx context.Context) ([]models.Contest, error) {
	var contests []models.Contest
	if err := cs.API.GetJSON(ctx, "contests", "/contests", false, &contests); err != nil {
		return nil, err
	}
	return contests, nil
}

// RegisterInterest marks the signed-in user as interested in a contest.
func (cs *ContestService) RegisterInterest(ctx context.Context, contestID string) error {
	if contestID == "" {
		return &ValidationError{Field: "contestId", Message: "contest is required"}
	}
	payload := map[string]string{"contestId": contestID}
	return cs.API.PostJSON(ctx, "interest", "/interest", true, payload, nil)
}
