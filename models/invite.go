package models

// Invite represents a directed invitation (fromId -> toId) scoped to one
// contest. Once sent it is immutable: there is no accept, reject, or withdraw
// in this client. The received-invites endpoint only populates FromID.
type Invite struct {
	FromID    string `json:"fromId"`
	ToID      string `json:"toId,omitempty"`
	ContestID string `json:"contestId,omitempty"`
}
