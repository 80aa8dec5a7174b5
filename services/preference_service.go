package services

import (
	"context"
	"strings"
)

// PreferenceService submits the user's desired-skill set for a contest. The
// backend recomputes recommendations on every submission, so the view layer
// always follows a successful submit with a recommendation refresh.
type PreferenceService struct {
	API *APIClient
}

// Submit saves the desired skills for contestID. An empty skill set is a
// policy violation rejected here, before any network call.
func (ps *PreferenceService) Submit(ctx context.Context, contestID string, desiredSkills []string) error {
	if contestID == "" {
		return &ValidationError{Field: "contestId", Message: "contest is required"}
	}
	skills := dedupeSkills(desiredSkills)
	if len(skills) == 0 {
		return &ValidationError{Field: "desiredSkills", Message: "select at least one skill"}
	}

	payload := map[string]interface{}{
		"contestId":     contestID,
		"desiredSkills": skills,
	}
	return ps.API.PostJSON(ctx, "match-preference", "/match-preference", true, payload, nil)
}

// dedupeSkills drops empty and duplicate tags while keeping the original
// order.
func dedupeSkills(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
