package changelog

import "time"

// SyncResult is the structured outcome of one sync run. After the
// precondition checks every failure mode is captured here instead of being
// returned as an error, so callers can always inspect Success, Errors and
// Conflicts without error handling around the call.
type SyncResult struct {
	Success          bool          `json:"success"`
	Direction        Direction     `json:"direction"`
	EntriesProcessed int           `json:"entriesProcessed"`
	Conflicts        []Conflict    `json:"conflicts"`
	Errors           []string      `json:"errors"`
	Duration         time.Duration `json:"duration"`
	Timestamp        time.Time     `json:"timestamp"`
}
