package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SessionEventType names a lifecycle event broadcast to the admin monitor.
type SessionEventType string

const (
	EventAssessmentStarted    SessionEventType = "started"
	EventAssessmentSubmitted  SessionEventType = "submitted"
	EventAssessmentTerminated SessionEventType = "terminated"
)

// SessionEvent is published on the monitor channel after a state change.
type SessionEvent struct {
	Type            SessionEventType `json:"type"`
	CandidateID     string           `json:"candidate_id"`
	AssessmentID    string           `json:"assessment_id,omitempty"`
	Status          AssessmentStatus `json:"status"`
	ScorePercentage *float64         `json:"score_percentage,omitempty"`
	Late            bool             `json:"late,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	OccurredAt      time.Time        `json:"occurred_at"`
}

// Violation is an audit record of a proctoring incident.
type Violation struct {
	ID           int64     `json:"id"`
	CandidateID  string    `json:"candidate_id"`
	AssessmentID string    `json:"assessment_id"`
	Kind         string    `json:"kind"`
	Detail       string    `json:"detail"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Violation kinds reported by the proctoring client.
const (
	ViolationTabSwitch      = "tab_switch"
	ViolationFullscreenExit = "fullscreen_exit"
	ViolationTermination    = "termination"
)

// MaxViolationKindLen matches assessment_violations.kind (VARCHAR(64)).
const MaxViolationKindLen = 64

// NormalizeViolationKind trims kind, defaults it to ViolationTermination and
// cuts it to MaxViolationKindLen characters without splitting a rune.
func NormalizeViolationKind(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return ViolationTermination
	}
	if utf8.RuneCountInString(kind) <= MaxViolationKindLen {
		return kind
	}
	n := 0
	for i := range kind {
		if n == MaxViolationKindLen {
			return strings.TrimSpace(kind[:i])
		}
		n++
	}
	return kind
}

// ViolationQueueItem is the JSON shape of a violation on the persistence queue.
type ViolationQueueItem struct {
	CandidateID  string `json:"candidate_id"`
	AssessmentID string `json:"assessment_id"`
	Kind         string `json:"kind"`
	Detail       string `json:"detail"`
	Timestamp    int64  `json:"timestamp"`
}
