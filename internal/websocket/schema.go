package websocket

import "github.com/ironcrest/proctor-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing      Action = "ping"
	ActionViolation Action = "violation"
	ActionSubmit    Action = "submit"
)

// RequestPayload is the single inbound frame shape. Fields that do not apply
// to an action are ignored.
type RequestPayload struct {
	Action  Action                  `json:"action"`
	Kind    string                  `json:"kind,omitempty"`
	Answers map[string]model.Answer `json:"answers,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventPong       Event = "pong"
	EventTerminated Event = "terminated"
	EventGraded     Event = "graded"
	EventError      Event = "error"
)

type GradedResponse struct {
	Event  Event                  `json:"event"`
	Status model.AssessmentStatus `json:"status"`
	Result *model.SubmitResult    `json:"result"`
}

type TerminatedResponse struct {
	Event  Event                  `json:"event"`
	Status model.AssessmentStatus `json:"status"`
	Reason string                 `json:"reason"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
