package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machipower_client/apitest"
)

func TestPreferenceSubmit(t *testing.T) {
	gateway := apitest.New()
	prefs := &PreferenceService{API: newTestClient(t, gateway)}

	require.NoError(t, prefs.Submit(context.Background(), "c1", []string{"React", "SQL"}))
	assert.Equal(t, 1, gateway.PreferenceCalls)
}

// An empty desired-skill set is rejected before any network call is made.
func TestPreferenceSubmitRejectsEmptySkills(t *testing.T) {
	gateway := apitest.New()
	prefs := &PreferenceService{API: newTestClient(t, gateway)}

	var validation *ValidationError
	for _, skills := range [][]string{nil, {}, {"", "  "}} {
		err := prefs.Submit(context.Background(), "c1", skills)
		require.ErrorAs(t, err, &validation)
	}
	assert.Zero(t, gateway.PreferenceCalls)
}

func TestPreferenceSubmitRequiresContest(t *testing.T) {
	gateway := apitest.New()
	prefs := &PreferenceService{API: newTestClient(t, gateway)}

	var validation *ValidationError
	require.ErrorAs(t, prefs.Submit(context.Background(), "", []string{"Go"}), &validation)
	assert.Zero(t, gateway.PreferenceCalls)
}

func TestPreferenceSubmitRemoteError(t *testing.T) {
	gateway := apitest.New()
	gateway.FailStatus["/match-preference"] = http.StatusBadGateway
	prefs := &PreferenceService{API: newTestClient(t, gateway)}

	var remote *RemoteError
	require.ErrorAs(t, prefs.Submit(context.Background(), "c1", []string{"Go"}), &remote)
}

func TestDedupeSkills(t *testing.T) {
	got := dedupeSkills([]string{" React ", "SQL", "React", "", "SQL", "AI"})
	assert.Equal(t, []string{"React", "SQL", "AI"}, got)
}
