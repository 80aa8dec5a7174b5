package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machipower_client/apitest"
	"machipower_client/models"
)

func TestProfileCreate(t *testing.T) {
	gateway := apitest.New()
	profiles := &ProfileService{API: newTestClient(t, gateway)}

	err := profiles.Create(context.Background(), models.UserProfile{
		UserID:   "u1",
		Nickname: "amy",
		Major:    "CS",
		Skills:   models.SkillList{"React", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.ProfileCalls)
}

func TestProfileCreateRequiredFields(t *testing.T) {
	gateway := apitest.New()
	profiles := &ProfileService{API: newTestClient(t, gateway)}

	var validation *ValidationError
	require.ErrorAs(t, profiles.Create(context.Background(), models.UserProfile{Nickname: "amy"}), &validation)
	require.ErrorAs(t, profiles.Create(context.Background(), models.UserProfile{UserID: "u1"}), &validation)
	assert.Zero(t, gateway.ProfileCalls)
}
