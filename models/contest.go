package models

// Contest is a competition instance users can join and seek teammates for.
// Times are passed through as the RFC 3339 strings the gateway serves.
type Contest struct {
	ContestID string `json:"contestId"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DisplayName returns the contest name, falling back to the id.
func (c Contest) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ContestID
}
