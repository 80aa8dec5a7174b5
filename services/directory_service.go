package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"machipower_client/models"
)

// DirectoryService maintains the userId -> profile lookup map that backs
// nickname and skill rendering across the client.
type DirectoryService struct {
	API *APIClient

	mu       sync.Mutex
	profiles map[string]models.UserProfile
}

// LoadAll fetches every registered profile and rebuilds the lookup map from
// scratch; there is no incremental merge, the last fetch wins. A malformed
// record never fails the load: anything with a usable userId is kept as an
// empty-skills profile, records without one are skipped.
func (ds *DirectoryService) LoadAll(ctx context.Context) (map[string]models.UserProfile, error) {
	var raw []json.RawMessage
	if err := ds.API.GetJSON(ctx, "users", "/users", true, &raw); err != nil {
		return nil, err
	}

	profiles := make(map[string]models.UserProfile, len(raw))
	for _, record := range raw {
		profile, ok := decodeProfile(record)
		if !ok {
			continue
		}
		profiles[profile.UserID] = profile
	}

	ds.mu.Lock()
	ds.profiles = profiles
	ds.mu.Unlock()

	log.Printf("Loaded %d user profiles into the directory", len(profiles))
	return profiles, nil
}

func decodeProfile(record json.RawMessage) (models.UserProfile, bool) {
	var profile models.UserProfile
	if err := json.Unmarshal(record, &profile); err == nil && profile.UserID != "" {
		return profile, true
	}

	// Salvage the id from records whose other fields do not decode.
	var id struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(record, &id); err != nil || id.UserID == "" {
		log.Printf("Skipping directory record without a usable userId")
		return models.UserProfile{}, false
	}
	return models.UserProfile{UserID: id.UserID, Skills: models.SkillList{}}, true
}

// Lookup returns the cached profile for userID, or a placeholder carrying
// just the raw id when the directory has no entry (or was never loaded).
func (ds *DirectoryService) Lookup(userID string) models.UserProfile {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if profile, ok := ds.profiles[userID]; ok {
		return profile
	}
	return models.UserProfile{UserID: userID}
}
