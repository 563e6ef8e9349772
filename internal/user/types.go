package user

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/sportapp/internal/feed"
)

// store handles all database operations for users.
type store struct {
	db  *sql.DB
	hub feed.Hub
	mu  sync.RWMutex
}

const userColumns = `id, first_name, last_name, username, gender, age, location, bio, sport_levels_json, image_url, notifications_token`
