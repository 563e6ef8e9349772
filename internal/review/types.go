package review

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/sportapp/internal/feed"
)

// store handles all database operations for reviews.
type store struct {
	db  *sql.DB
	hub feed.Hub
	mu  sync.RWMutex
}

const (
	reviewColumns = `id, user_id, username, playground_id, title, text, quality_rating, facilities_rating, publication_date, last_update`
	maxRating     = 5
)
