package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client message shape; the action decides
// what the server does with it.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady Event = "ready"
	EventAudit Event = "audit"
	EventPong  Event = "pong"
	EventError Event = "error"
)

// ReadyResponse is sent once the audit subscription is live.
type ReadyResponse struct {
	Event   Event  `json:"event"`
	Channel string `json:"channel"`
}

// AuditResponse carries one committed admin log entry as published.
type AuditResponse struct {
	Event Event           `json:"event"`
	Entry json.RawMessage `json:"entry"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
