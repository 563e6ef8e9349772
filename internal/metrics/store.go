package metrics

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/errs"
)

// store keeps the persistent counters in the metrics table.
type store struct {
	db *sql.DB
}

// New creates a MetricsStore over db.
func New(db *sql.DB) MetricsStore {
	return &store{db: db}
}

// Increment adds one to key, creating it at 1. The upsert is a single statement,
// so concurrent increments never lose a count.
func (s *store) Increment(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1`,
		key)
	if err != nil {
		log.Error("Failed to increment counter", "error", err, "key", key)
		return errs.Default("IncrementCounter", err)
	}
	log.Debug("Incremented counter", "key", key)
	return nil
}

// GetAll returns every counter by key.
func (s *store) GetAll(ctx context.Context) (map[string]int, error) {
	const op = "GetCounters"
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM metrics ORDER BY key")
	if err != nil {
		return nil, errs.Default(op, err)
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errs.Default(op, err)
		}
		counters[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Default(op, err)
	}
	return counters, nil
}
