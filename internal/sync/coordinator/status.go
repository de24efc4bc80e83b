package coordinator

import "time"

// Phase is the state of the refresh loop
type Phase string

const (
	// PhaseIdle means no check has run yet
	PhaseIdle Phase = "Idle"

	// PhaseReloading means a reload is in progress
	PhaseReloading Phase = "Reloading"

	// PhaseComplete means the last check or reload succeeded
	PhaseComplete Phase = "Complete"

	// PhaseFailed means the last reload failed; the previous snapshot is still served
	PhaseFailed Phase = "Failed"
)

// Status describes the outcome of the most recent refresh check
type Status struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`

	// Reason is why the last check did or did not reload
	Reason string `json:"reason,omitempty"`

	LastCheck  *time.Time `json:"lastCheck,omitempty"`
	LastReload *time.Time `json:"lastReload,omitempty"`
	SnapshotID string     `json:"snapshotId,omitempty"`

	// FailureCount is the number of consecutive failed reloads
	FailureCount int `json:"failureCount"`
}
