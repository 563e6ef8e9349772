package reservation

import (
	"database/sql"
	"time"

	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/user"
)

// store owns the reservation root documents and their denormalized slot records.
type store struct {
	db           *sql.DB
	hub          feed.Hub
	users        user.UserStore
	catalog      catalog.CatalogStore
	events       pubsub.PubSubClient
	metrics      metrics.Metrics
	slotDuration time.Duration
}

// Slot is one unit of a reservation's time range, [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

// AvailabilityMap lists, per date and per slot start, the playgrounds that are
// open and not reserved.
type AvailabilityMap map[string]map[string][]model.DetailedPlaygroundSport

const reservationColumns = `id, user_id, username, playground_id, sport_id, sport_center_id, start_date_time, end_date_time, timestamp, total_price, participants_json`
