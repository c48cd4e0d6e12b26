package models

import "time"

// Event records a notable account action, shown in the dashboard activity
// feed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "auth.login", "analysis.complete"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	Email     string    `json:"email,omitempty"` // empty for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
