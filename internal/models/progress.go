package models

// ProgressSnapshot holds today's review counters. Exactly one snapshot
// is persisted at a time; it is overwritten, never appended.
type ProgressSnapshot struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
