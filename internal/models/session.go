package models

// SessionUpdate is pushed to a device's websocket whenever its identity changes.
type SessionUpdate struct {
	Type       string    `json:"type"` // always "session"
	Event      string    `json:"event,omitempty"`
	Configured bool      `json:"configured"`
	Loading    bool      `json:"loading"`
	User       *Identity `json:"user"`
}
