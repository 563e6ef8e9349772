package processor

import (
	"time"

	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/pubsub"
)

const lookupTimeout = 5 * time.Second

// Processor consumes domain events: it keeps the persistent counters and tells
// staff about bookings.
type Processor struct {
	catalog  Catalog
	users    Users
	notifier Notifier
	counters metrics.MetricsStore
	pubsub   pubsub.PubSubClient
	dryRun   bool
}
