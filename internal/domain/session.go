package domain

// SessionView is everything the presentation layer needs to render one
// session: full history, the capped display grid and the latest snapshot.
type SessionView struct {
	SessionID string     `json:"session_id"`
	History   []Record   `json:"history"`
	Grid      [][]Record `json:"grid"`
	Snapshot  Snapshot   `json:"snapshot"`
}

// SessionEvent is the envelope published on the bus after a session changes.
type SessionEvent struct {
	Type    string      `json:"type"`
	Payload SessionView `json:"payload"`
}

// EventSessionUpdate is the SessionEvent type for history/snapshot changes.
const EventSessionUpdate = "session_update"
