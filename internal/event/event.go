package event

import "time"

type Type string

const (
	TypeSessionStarted Type = "session.started"
	TypeSessionCleared Type = "session.cleared"
	TypeCasesRefreshed Type = "cases.refreshed"
	TypeCaseStarted    Type = "case.started"
	TypeCaseRouted     Type = "case.routed"
	TypeStatsUpdated   Type = "stats.updated"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	// Emit publishes a typed payload, filling in the event id and timestamp.
	Emit(t Type, payload any)
	// Subscribe returns a receive channel plus an unsubscribe function. The
	// channel is closed on unsubscribe; pending sends to a full channel are
	// dropped rather than blocking the publisher.
	Subscribe() (<-chan Event, func())
}
