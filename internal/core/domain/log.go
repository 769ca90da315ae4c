package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// LogEntry is a row of the system log: failures recorded by the error
// boundary and audit events such as impersonation.
type LogEntry struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Source    string         `json:"source"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
	ActorID   *uuid.UUID     `json:"actor_id"`
	CreatedAt time.Time      `json:"created_at"`
}
