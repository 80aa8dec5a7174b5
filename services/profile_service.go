package services

import (
	"context"

	"machipower_client/models"
)

// ProfileService submits the signed-in user's own profile.
type ProfileService struct {
	API *APIClient
}

// Create persists the profile. Required fields are checked locally so an
// incomplete form never reaches the network.
func (ps *ProfileService) Create(ctx context.Context, profile models.UserProfile) error {
	if profile.UserID == "" {
		return &ValidationError{Field: "userId", Message: "user id is required"}
	}
	if profile.Nickname == "" {
		return &ValidationError{Field: "nickname", Message: "nickname is required"}
	}

	payload := map[string]interface{}{
		"userId":    profile.UserID,
		"nickname":  profile.Nickname,
		"major":     profile.Major,
		"skills":    []string(profile.Skills),
		"selfIntro": profile.SelfIntro,
		"resumeUrl": profile.ResumeURL,
	}
	return ps.API.PostJSON(ctx, "create-profile", "/create-profile", true, payload, nil)
}
