// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ProcessingState is the pipeline state of a single processed identifier.
// States advance monotonically; Completed and Failed are terminal.
type ProcessingState string

const (
	StateNew               ProcessingState = "new"
	StateTriaged           ProcessingState = "triaged"
	StateMetadataExtracted ProcessingState = "metadata_extracted"
	StateOAVerified        ProcessingState = "oa_verified"
	StateCompleted         ProcessingState = "completed"
	StateFailed            ProcessingState = "failed"
)

// stateRank orders states for monotonic transition checks. Failed is
// reachable from any non-terminal state.
var stateRank = map[ProcessingState]int{
	StateNew:               0,
	StateTriaged:           1,
	StateMetadataExtracted: 2,
	StateOAVerified:        3,
	StateCompleted:         4,
	StateFailed:            4,
}

// Terminal reports whether the state ends processing.
func (s ProcessingState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// ProcessingResult is the outcome of processing one identifier (a DOI, a
// URL, or an ad-hoc search hit with no original identifier).
type ProcessingResult struct {
	// URL is the original identifier. Empty for search hits that carry
	// no canonical URL.
	URL string `json:"url"`

	State ProcessingState `json:"state"`

	Metadata *PaperMetadata `json:"metadata,omitempty"`

	// ErrorMessage is set iff State is StateFailed.
	ErrorMessage string `json:"error_message,omitempty"`

	// ProcessingTime is elapsed wall-clock time in seconds.
	ProcessingTime float64 `json:"processing_time"`

	RetryCount int `json:"retry_count"`
}

// NewResult creates a result in the initial state.
func NewResult(url string) *ProcessingResult {
	return &ProcessingResult{URL: url, State: StateNew}
}

// Advance moves the result to a later state. Backward transitions and
// transitions out of a terminal state are rejected.
func (r *ProcessingResult) Advance(to ProcessingState) error {
	if r.State.Terminal() {
		return fmt.Errorf("result already in terminal state %q", r.State)
	}
	if stateRank[to] < stateRank[r.State] {
		return fmt.Errorf("cannot move backward from %q to %q", r.State, to)
	}
	r.State = to
	return nil
}

// Fail marks the result failed with a human-readable message.
func (r *ProcessingResult) Fail(msg string) {
	r.State = StateFailed
	r.ErrorMessage = msg
}
