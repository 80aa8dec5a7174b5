package services

import (
	"context"

	"machipower_client/models"
)

// RecommendationService requests ranked candidate teammates for a
// (user, contest) pair.
type RecommendationService struct {
	API *APIClient
}

// Fetch returns the current recommendations and their status. The no_match
// and fallback statuses are valid empty or partial results, not errors; only
// transport failures and non-2xx responses surface as RemoteError. Responses
// missing a status are normalized so callers always see one of the three
// known values.
func (rs *RecommendationService) Fetch(ctx context.Context, userID, contestID string) (*models.RecommendationResult, error) {
	payload := map[string]string{
		"userId":    userID,
		"contestId": contestID,
	}

	var result models.RecommendationResult
	if err := rs.API.PostJSON(ctx, "recommend", "/recommend", true, payload, &result); err != nil {
		return nil, err
	}

	if result.Status == "" {
		if len(result.Recommendations) > 0 {
			result.Status = models.RecommendationStatusOK
		} else {
			result.Status = models.RecommendationStatusNoMatch
		}
	}
	return &result, nil
}
