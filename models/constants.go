package models

// Recommendation statuses returned by the matching backend
const (
	RecommendationStatusOK       = "ok"
	RecommendationStatusNoMatch  = "no_match"
	RecommendationStatusFallback = "fallback"
)

// Invite states as observed by this client (per target user, per contest)
const (
	InviteStateNotInvited = "not_invited"
	InviteStateSending    = "sending"
	InviteStateInvited    = "invited"
)

// ResumeContentType is the only MIME type accepted for resume uploads
const ResumeContentType = "application/pdf"
