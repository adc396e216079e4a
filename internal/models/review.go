package models

import "time"

// Review choice tokens. These are a wire contract with the backend and
// must round-trip unchanged.
const (
	ChoiceUnknown = "不认识"
	ChoiceFuzzy   = "模糊"
	ChoiceKnown   = "认识"
)

// ValidChoice reports whether s is one of the three review tokens.
func ValidChoice(s string) bool {
	return s == ChoiceUnknown || s == ChoiceFuzzy || s == ChoiceKnown
}

// PendingReview is a locally queued, not-yet-acknowledged review
// submission. Entries are appended when a submission fails for
// connectivity reasons and marked synced (never deleted) after a
// successful replay, keeping an audit trail.
type PendingReview struct {
	ID         int64     `json:"id"`
	ClientID   string    `json:"clientReviewId"`
	MeaningID  int64     `json:"meaningId"`
	UserChoice string    `json:"userChoice"`
	CreatedAt  time.Time `json:"createdAt"`
	Synced     bool      `json:"synced"`
}
