package catalog

import (
	"database/sql"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/review"
)

// store reads the catalog. The catalog is written only by Seed.
type store struct {
	db      *sql.DB
	hub     feed.Hub
	reviews review.ReviewStore
}

const (
	playgroundColumns = `id, playground_name, sport_id, sport_name, sport_emoji, sport_center_id, sport_center_name, sport_center_address, opening_hours, closing_hours, price_per_hour, max_players`
	equipmentColumns  = `id, name, sport_id, sport_center_id, unit_price, max_quantity`
)
