package entities

import "time"

// StageStatus is the lifecycle state of one pipeline stage.
type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageSuccess StageStatus = "success"
	StageError   StageStatus = "error"
)

// ProgressEvent reports the entry or exit of one pipeline stage. Later events
// for the same stage key supersede earlier ones; consumers drain them for UI
// feedback and they have no effect on pipeline control flow.
type ProgressEvent struct {
	StageKey  string      `json:"stage_key"`
	Label     string      `json:"label"`
	Status    StageStatus `json:"status"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
	Err       string      `json:"error,omitempty"`
}
