package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// LogRepository stores the system log.
type LogRepository struct {
	db DBTX
}

var _ ports.LogRepository = (*LogRepository)(nil)

func NewLogRepository(db DBTX) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Insert(ctx context.Context, e *domain.LogEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode log details: %w", err)
	}

	query := `INSERT INTO system_logs (level, source, message, details, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, e.Level, e.Source, e.Message, raw, e.ActorID, e.CreatedAt).Scan(&e.ID); err != nil {
		return dbError("insert log", err)
	}
	return nil
}

// List returns entries newest first.
func (r *LogRepository) List(ctx context.Context, f ports.LogFilter) ([]domain.LogEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.Level != "" {
		args = append(args, f.Level)
		where = append(where, fmt.Sprintf("level = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}

	query := `SELECT id, level, source, message, details, actor_id, created_at FROM system_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("list logs", err)
	}
	defer rows.Close()

	out := []domain.LogEntry{}
	for rows.Next() {
		var (
			e   domain.LogEntry
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.Message, &raw, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, dbError("scan log", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Details); err != nil {
				return nil, fmt.Errorf("decode log details: %w", err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list logs", err)
	}
	return out, nil
}
