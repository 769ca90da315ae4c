package ports

import (
	"context"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// LogFilter narrows a system log listing.
type LogFilter struct {
	Level  string
	Source string
	Limit  int
}

// LogRepository persists system log entries.
type LogRepository interface {
	Insert(ctx context.Context, entry *domain.LogEntry) error
	List(ctx context.Context, filter LogFilter) ([]domain.LogEntry, error)
}

// EventRecorder accepts system log entries for asynchronous persistence.
// Record never blocks the caller.
type EventRecorder interface {
	Record(entry domain.LogEntry)
}
