package websocket

import "github.com/coldpeak/gomoku-rooms/internal/session"

// Intents the presentation layer may send.
const (
	ActionSelectCell = "cell:select"
	ActionConfirm    = "cell:confirm"
	ActionCancel     = "cell:cancel"
	ActionSetReady   = "ready:set"
	ActionStart      = "game:start"
	ActionReset      = "game:reset"
)

// Message is a client intent. Row/Col apply to cell selection, Color and
// Value to readiness.
type Message struct {
	Action string `json:"action"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Color  string `json:"color,omitempty"`
	Value  bool   `json:"value"`
}

// StateMessage pushes the latest session snapshot to the client. The
// participant id is echoed so a first-time device can persist it.
type StateMessage struct {
	Type          string           `json:"type"`
	ParticipantID string           `json:"participantId"`
	Snapshot      session.Snapshot `json:"snapshot"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
