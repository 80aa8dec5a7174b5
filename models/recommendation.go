package models

import "encoding/json"

// Recommendation is one server-ranked candidate teammate. MatchedSkills is the
// overlap between the candidate's skills and the requester's current desired
// skills, as computed by the backend.
type Recommendation struct {
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Major         string    `json:"major"`
	Skills        SkillList `json:"skills"`
	MatchedSkills []string  `json:"matchedSkills"`
	MatchScore    float64   `json:"matchScore"`
}

// RecommendationResult is the decoded response of the recommend endpoint.
// Depending on how the serverless integration is deployed, the payload arrives
// either as the object itself or wrapped in a proxy envelope whose "body"
// field holds the object JSON-encoded as a string. Decoding unwraps the
// envelope transparently so callers only ever see status and recommendations.
type RecommendationResult struct {
	Status          string
	Recommendations []Recommendation
}

func (r *RecommendationResult) UnmarshalJSON(data []byte) error {
	var plain struct {
		Status          string           `json:"status"`
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(unwrapBody(data), &plain); err != nil {
		return err
	}
	r.Status = plain.Status
	r.Recommendations = plain.Recommendations
	return nil
}

// unwrapBody peels the proxy envelope off a response payload. The "body"
// field may hold the payload directly or as a JSON-encoded string; payloads
// without a "body" field pass through untouched.
func unwrapBody(data []byte) []byte {
	var env struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &env); err != nil || len(env.Body) == 0 {
		return data
	}

	var encoded string
	if err := json.Unmarshal(env.Body, &encoded); err == nil {
		return []byte(encoded)
	}
	return env.Body
}
