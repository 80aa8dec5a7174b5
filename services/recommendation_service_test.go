package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machipower_client/apitest"
	"machipower_client/models"
)

func TestRecommendationFetch(t *testing.T) {
	gateway := apitest.New()
	gateway.RecommendJSON["c1"] = json.RawMessage(`{
		"status": "ok",
		"recommendations": [{"userId": "u9", "name": "lee", "matchedSkills": ["React", "SQL"], "matchScore": 2}]
	}`)

	recs := &RecommendationService{API: newTestClient(t, gateway)}
	result, err := recs.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationStatusOK, result.Status)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "u9", result.Recommendations[0].UserID)
}

// The gateway sometimes delivers the payload JSON-encoded as a string under
// "body"; the fetch result must come out identical either way.
func TestRecommendationFetchStringWrappedBody(t *testing.T) {
	payload := `{"status":"ok","recommendations":[{"userId":"u9","matchScore":2}]}`

	direct := apitest.New()
	direct.RecommendJSON["c1"] = json.RawMessage(payload)

	wrapped := apitest.New()
	envelope, err := json.Marshal(map[string]interface{}{"statusCode": 200, "body": payload})
	require.NoError(t, err)
	wrapped.RecommendJSON["c1"] = envelope

	directService := &RecommendationService{API: newTestClient(t, direct)}
	wrappedService := &RecommendationService{API: newTestClient(t, wrapped)}

	directResult, err := directService.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)
	wrappedResult, err := wrappedService.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)

	assert.Equal(t, directResult, wrappedResult)
}

// no_match and fallback are valid outcomes, not errors.
func TestRecommendationFetchEmptyStatuses(t *testing.T) {
	gateway := apitest.New()
	recs := &RecommendationService{API: newTestClient(t, gateway)}

	result, err := recs.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationStatusNoMatch, result.Status)
	assert.Empty(t, result.Recommendations)

	gateway.RecommendJSON["c1"] = json.RawMessage(`{"status":"fallback","recommendations":[]}`)
	result, err = recs.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationStatusFallback, result.Status)
}

func TestRecommendationFetchNormalizesMissingStatus(t *testing.T) {
	gateway := apitest.New()
	gateway.RecommendJSON["c1"] = json.RawMessage(`{"recommendations":[{"userId":"u9"}]}`)

	recs := &RecommendationService{API: newTestClient(t, gateway)}
	result, err := recs.Fetch(context.Background(), "me", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationStatusOK, result.Status)
}

func TestRecommendationFetchRemoteError(t *testing.T) {
	gateway := apitest.New()
	gateway.FailStatus["/recommend"] = http.StatusServiceUnavailable

	recs := &RecommendationService{API: newTestClient(t, gateway)}
	_, err := recs.Fetch(context.Background(), "me", "c1")

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.StatusCode)
}
