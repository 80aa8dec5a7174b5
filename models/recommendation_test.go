package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recommendationPayload = `{
	"status": "ok",
	"recommendations": [
		{"userId": "u9", "name": "lee", "major": "EE", "skills": ["React", "SQL"], "matchedSkills": ["React", "SQL"], "matchScore": 2}
	]
}`

func TestRecommendationResultDecodesPlainPayload(t *testing.T) {
	var result RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(recommendationPayload), &result))

	assert.Equal(t, RecommendationStatusOK, result.Status)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "u9", result.Recommendations[0].UserID)
	assert.Equal(t, float64(2), result.Recommendations[0].MatchScore)
	assert.Equal(t, []string{"React", "SQL"}, result.Recommendations[0].MatchedSkills)
}

// A payload nested as a JSON-encoded string under "body" must decode to the
// same result as the equivalent object delivered directly.
func TestRecommendationResultUnwrapsStringBody(t *testing.T) {
	wrapped, err := json.Marshal(map[string]interface{}{
		"statusCode": 200,
		"body":       recommendationPayload,
	})
	require.NoError(t, err)

	var direct, unwrapped RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(recommendationPayload), &direct))
	require.NoError(t, json.Unmarshal(wrapped, &unwrapped))

	assert.Equal(t, direct, unwrapped)
}

func TestRecommendationResultUnwrapsObjectBody(t *testing.T) {
	wrapped := `{"statusCode": 200, "body": ` + recommendationPayload + `}`

	var direct, unwrapped RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(recommendationPayload), &direct))
	require.NoError(t, json.Unmarshal([]byte(wrapped), &unwrapped))

	assert.Equal(t, direct, unwrapped)
}

func TestRecommendationResultEmptyStatuses(t *testing.T) {
	var result RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(`{"status":"no_match","recommendations":[]}`), &result))
	assert.Equal(t, RecommendationStatusNoMatch, result.Status)
	assert.Empty(t, result.Recommendations)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"fallback","recommendations":[]}`), &result))
	assert.Equal(t, RecommendationStatusFallback, result.Status)
}
