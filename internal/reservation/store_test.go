package reservation_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/reservation"
	"github.com/mauv0809/sportapp/internal/review"
	"github.com/mauv0809/sportapp/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   reservation.ReservationStore
	catalog catalog.CatalogStore
	db      *sql.DB
	hub     *feed.MemoryHub
	events  *pubsub.MockPubSubClient
	metrics *metrics.Mock
}

var (
	p1 = playground("p1", "Court 1", "tennis", "c1")
	p2 = playground("p2", "Court 2", "tennis", "c1")
	p3 = playground("p3", "Court 3", "tennis", "c1")
	p4 = playground("p4", "Padel 1", "padel", "c2")

	racket = model.Equipment{ID: "e1", Name: "Racket", SportID: "tennis", SportCenterID: "c1", UnitPrice: 10, MaxQuantity: 5}
	balls  = model.Equipment{ID: "e2", Name: "Balls", SportID: "tennis", SportCenterID: "c1", UnitPrice: 2, MaxQuantity: 10}
)

func playground(id, name, sportID, centerID string) model.PlaygroundSport {
	return model.PlaygroundSport{
		ID:             id,
		PlaygroundName: name,
		SportID:        sportID,
		SportName:      sportID,
		SportCenter: model.SportCenter{
			ID:           centerID,
			Name:         "Center " + centerID,
			Address:      "Via Roma 1",
			OpeningHours: "08:00",
			ClosingHours: "22:00",
		},
		PricePerHour: 20,
		MaxPlayers:   4,
	}
}

// setupTestDB creates an in-memory SQLite database with a seeded catalog and two users.
func setupTestDB(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	hub := feed.NewMemoryHub()
	users := user.New(db, hub)
	cat := catalog.New(db, hub, review.New(db, hub))
	events := pubsub.NewMock()
	m := metrics.NewMock()
	ctx := context.Background()

	require.NoError(t, cat.Seed(ctx,
		[]model.Sport{{ID: "tennis", Name: "Tennis"}, {ID: "padel", Name: "Padel"}},
		[]model.PlaygroundSport{p1, p2, p3, p4},
		[]model.Equipment{racket, balls},
	))
	require.NoError(t, users.InsertUser(ctx, model.User{ID: "u1", Username: "alice"}))
	require.NoError(t, users.InsertUser(ctx, model.User{ID: "u2", Username: "bob"}))

	env := &testEnv{
		store:   reservation.New(db, hub, users, cat, events, m, time.Hour),
		catalog: cat,
		db:      db,
		hub:     hub,
		events:  events,
		metrics: m,
	}
	return env, teardown
}

func day(d, hour, minute int) time.Time {
	return time.Date(2024, 6, d, hour, minute, 0, 0, time.Local)
}

func request(playgroundID string, start, end time.Time, selected ...model.SelectedEquipment) model.NewReservation {
	sportID, centerID := "tennis", "c1"
	if playgroundID == p4.ID {
		sportID, centerID = "padel", "c2"
	}
	return model.NewReservation{
		PlaygroundID:       playgroundID,
		SportID:            sportID,
		SportCenterID:      centerID,
		StartTime:          start,
		EndTime:            end,
		SelectedEquipments: selected,
	}
}

func rackets(n int) model.SelectedEquipment {
	return model.SelectedEquipment{EquipmentID: racket.ID, SelectedQuantity: n}
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestReserveAndConflicts(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	id, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(2)))
	require.NoError(t, err)

	r, err := env.store.GetReservation(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, r.TotalPrice, 1e-9)
	assert.Equal(t, model.Participant{ID: "u1", Username: "alice"}, r.User)
	assert.Equal(t, []model.Participant{{ID: "u1", Username: "alice"}}, r.Participants)
	assert.Equal(t, "2024-06-01T10:00:00", r.StartDateTime)

	var startSlot, openJSON string
	require.NoError(t, env.db.QueryRow("SELECT start_slot, open_playgrounds_ids_json FROM reservation_slots WHERE reservation_id = ?", id).Scan(&startSlot, &openJSON))
	assert.Equal(t, "2024-06-01T10:00:00", startSlot)
	assert.JSONEq(t, `["p1","p2","p3"]`, openJSON)
	assert.Equal(t, 1, count(t, env.db, "SELECT COUNT(*) FROM reservation_slots WHERE reservation_id = ?", id))

	var qty, snapshotMax int
	require.NoError(t, env.db.QueryRow("SELECT selected_quantity, equipment_max_quantity FROM equipment_reservation_slots WHERE playground_reservation_id = ?", id).Scan(&qty, &snapshotMax))
	assert.Equal(t, 2, qty)
	assert.Equal(t, 5, snapshotMax)

	t.Run("overlapping range on the same playground", func(t *testing.T) {
		_, err := env.store.UpsertReservation(ctx, "u2", request("p1", day(1, 10, 30), day(1, 11, 30)))
		assert.True(t, errs.Is(err, errs.KindSlotConflict))
		var conflict *errs.SlotConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, id, conflict.ReservationID)
		assert.Equal(t, "p1", conflict.PlaygroundID)
	})

	t.Run("equipment over capacity on another playground", func(t *testing.T) {
		_, err := env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 10, 0), day(1, 11, 0), rackets(4)))
		assert.True(t, errs.Is(err, errs.KindEquipmentConflict))
		var conflict *errs.EquipmentConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, racket.ID, conflict.EquipmentID)
		assert.Equal(t, 4, conflict.Requested)
		assert.Equal(t, 3, conflict.Available)
	})

	assert.Equal(t, 1, count(t, env.db, "SELECT COUNT(*) FROM playground_reservations"))
	assert.Equal(t, 1, env.metrics.ReservationsSaved())
	assert.Equal(t, 1, env.metrics.SlotConflicts())
	assert.Equal(t, 1, env.metrics.EquipmentConflicts())

	calls := env.events.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventReservationSaved, calls[0].Topic)
	event, ok := calls[0].Data.(pubsub.ReservationEvent)
	require.True(t, ok)
	assert.Equal(t, id, event.ReservationID)
	assert.True(t, event.Created)
}

func TestAdjacentRangesDoNotConflict(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 9, 0), day(1, 10, 0), rackets(5)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(5)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p1", day(1, 8, 0), day(1, 9, 0)))
	require.NoError(t, err)
}

func TestEquipmentAtCapacity(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(2)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 10, 0), day(1, 11, 0), rackets(3)))
	require.NoError(t, err)

	err = env.store.CheckEquipmentAvailability(ctx, "tennis", "c1", day(1, 10, 30), day(1, 11, 30), []model.SelectedEquipment{rackets(1)}, nil)
	assert.True(t, errs.Is(err, errs.KindEquipmentConflict))

	// Zero quantities are ignored.
	_, err = env.store.UpsertReservation(ctx, "u1", request("p3", day(1, 10, 0), day(1, 11, 0), rackets(0)))
	require.NoError(t, err)
	assert.Zero(t, count(t, env.db, "SELECT COUNT(*) FROM equipment_reservation_slots WHERE selected_quantity = 0"))
}

func TestEquipmentOccupancyIsMaxAcrossSlots(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(3)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 11, 0), day(1, 12, 0), rackets(2)))
	require.NoError(t, err)

	// 3 held at 10:00 and 2 at 11:00 leave 2 for the whole range.
	err = env.store.CheckEquipmentAvailability(ctx, "tennis", "c1", day(1, 10, 0), day(1, 12, 0), []model.SelectedEquipment{rackets(2)}, nil)
	assert.NoError(t, err)

	err = env.store.CheckEquipmentAvailability(ctx, "tennis", "c1", day(1, 10, 0), day(1, 12, 0), []model.SelectedEquipment{rackets(3)}, nil)
	var conflict *errs.EquipmentConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 2, conflict.Available)

	// Outside both reservations everything is left.
	err = env.store.CheckEquipmentAvailability(ctx, "tennis", "c1", day(1, 12, 0), day(1, 13, 0), []model.SelectedEquipment{rackets(5)}, nil)
	assert.NoError(t, err)
}

func TestEquipmentNeighboursThatNeverMeet(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 9, 30), day(1, 10, 30), rackets(3)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 10, 30), day(1, 11, 30), rackets(2)))
	require.NoError(t, err)

	// At most 3 rackets are out at any instant of 10:00-11:00.
	_, err = env.store.UpsertReservation(ctx, "u1", request("p3", day(1, 10, 0), day(1, 11, 0), rackets(2)))
	require.NoError(t, err)

	err = env.store.CheckEquipmentAvailability(ctx, "tennis", "c1", day(1, 10, 0), day(1, 11, 0), []model.SelectedEquipment{rackets(1)}, nil)
	var conflict *errs.EquipmentConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Zero(t, conflict.Available)
}

func TestSameInstantInAnotherZoneConflicts(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	instant := day(1, 12, 0)
	cest := time.FixedZone("CEST", 2*60*60)
	first, err := env.store.UpsertReservation(ctx, "u1", request("p1", instant.In(cest), instant.Add(time.Hour).In(cest)))
	require.NoError(t, err)

	_, err = env.store.UpsertReservation(ctx, "u2", request("p1", instant.UTC(), instant.Add(time.Hour).UTC()))
	assert.True(t, errs.Is(err, errs.KindSlotConflict), "got %v", err)

	r, err := env.store.GetReservation(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T12:00:00", r.StartDateTime)

	var openJSON string
	require.NoError(t, env.db.QueryRow("SELECT open_playgrounds_ids_json FROM reservation_slots WHERE reservation_id = ?", first).Scan(&openJSON))
	assert.JSONEq(t, `["p1","p2","p3"]`, openJSON)
}

func TestEquipmentNotOfferedAtCenter(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()

	err := env.store.CheckEquipmentAvailability(context.Background(), "padel", "c2", day(1, 10, 0), day(1, 11, 0),
		[]model.SelectedEquipment{rackets(1)}, nil)
	var conflict *errs.EquipmentConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Zero(t, conflict.Available)
}

func TestEditExcludesOwnReservation(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	id, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(5)))
	require.NoError(t, err)
	_, err = env.db.Exec(`UPDATE playground_reservations SET participants_json = '[{"id":"u1","username":"alice"},{"id":"u2","username":"bob"}]' WHERE id = ?`, id)
	require.NoError(t, err)

	req := request("p1", day(1, 10, 0), day(1, 11, 0), rackets(5))
	req.ID = &id
	gotID, err := env.store.UpsertReservation(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	req = request("p1", day(1, 10, 0), day(1, 12, 0), rackets(1), model.SelectedEquipment{EquipmentID: balls.ID, SelectedQuantity: 4})
	req.ID = &id
	_, err = env.store.UpsertReservation(ctx, "u2", req)
	require.NoError(t, err)

	r, err := env.store.GetReservation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", r.User.ID, "owner is kept")
	assert.Len(t, r.Participants, 2, "participants are kept")
	assert.Equal(t, "2024-06-01T12:00:00", r.EndDateTime)
	assert.InDelta(t, 20*2+10+2*4, r.TotalPrice, 1e-9)

	assert.Equal(t, 2, count(t, env.db, "SELECT COUNT(*) FROM reservation_slots WHERE reservation_id = ?", id))
	assert.Equal(t, 4, count(t, env.db, "SELECT COUNT(*) FROM equipment_reservation_slots WHERE playground_reservation_id = ?", id))
	assert.Equal(t, 1, count(t, env.db, "SELECT COUNT(*) FROM playground_reservations"))
}

func TestUpsertFailures(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.store.UpsertReservation(ctx, "ghost", request("p1", day(1, 10, 0), day(1, 11, 0)))
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	t.Run("empty range", func(t *testing.T) {
		_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 11, 0), day(1, 10, 0)))
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(-1)))
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	t.Run("playground does not offer the sport", func(t *testing.T) {
		req := request("p1", day(1, 10, 0), day(1, 11, 0))
		req.SportID = "padel"
		_, err := env.store.UpsertReservation(ctx, "u1", req)
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	t.Run("sport center does not own the playground", func(t *testing.T) {
		req := request("p1", day(1, 10, 0), day(1, 11, 0))
		req.SportCenterID = "c2"
		_, err := env.store.UpsertReservation(ctx, "u1", req)
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	t.Run("update of a missing reservation", func(t *testing.T) {
		req := request("p1", day(1, 10, 0), day(1, 11, 0))
		missing := "missing"
		req.ID = &missing
		_, err := env.store.UpsertReservation(ctx, "u1", req)
		assert.True(t, errs.Is(err, errs.KindUnexpected))
	})

	assert.Zero(t, count(t, env.db, "SELECT COUNT(*) FROM playground_reservations"))
	assert.Zero(t, count(t, env.db, "SELECT COUNT(*) FROM reservation_slots"))
}

func TestDeleteReservation(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	id, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 12, 0), rackets(2)))
	require.NoError(t, err)
	keep, err := env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 10, 0), day(1, 11, 0), rackets(1)))
	require.NoError(t, err)
	_, err = env.db.Exec(`
		INSERT INTO notifications (id, sender_uid, receiver_uid, reservation_id, timestamp, status) VALUES
		('n1', 'u1', 'u2', ?, '2024-05-01T10:00:00', 'PENDING'),
		('n2', 'u1', 'u3', ?, '2024-05-01T10:00:00', 'ACCEPTED'),
		('n3', 'u2', 'u1', ?, '2024-05-01T10:00:00', 'PENDING')`, id, id, keep)
	require.NoError(t, err)

	sub := env.hub.Subscribe(feed.Doc(feed.Notifications, "n1"))
	defer sub.Close()

	require.NoError(t, env.store.DeleteReservation(ctx, id))

	assert.Zero(t, count(t, env.db, "SELECT COUNT(*) FROM reservation_slots WHERE reservation_id = ?", id))
	assert.Zero(t, count(t, env.db, "SELECT COUNT(*) FROM equipment_reservation_slots WHERE playground_reservation_id = ?", id))
	assert.Equal(t, 2, count(t, env.db, "SELECT COUNT(*) FROM notifications WHERE reservation_id = ? AND status = 'CANCELED'", id))
	assert.Equal(t, 1, count(t, env.db, "SELECT COUNT(*) FROM notifications WHERE id = 'n3' AND status = 'PENDING'"))
	assert.Equal(t, 1, count(t, env.db, "SELECT COUNT(*) FROM reservation_slots WHERE reservation_id = ?", keep))

	_, err = env.store.GetReservation(ctx, id)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	select {
	case <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("expected a change on the canceled invitation")
	}

	calls := env.events.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, pubsub.EventReservationDeleted, calls[len(calls)-1].Topic)
	assert.Equal(t, 1, env.metrics.ReservationsDeleted())

	// The freed slot can be reserved again.
	_, err = env.store.UpsertReservation(ctx, "u2", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(4)))
	assert.NoError(t, err)

	err = env.store.DeleteReservation(ctx, "missing")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

// next waits for the next value delivered on ch.
func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("expected an update")
		var zero T
		return zero
	}
}

func TestWatchDetailedReservation(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	id, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 12, 0), rackets(2)))
	require.NoError(t, err)

	updates := make(chan *model.DetailedReservation, 10)
	l := env.store.WatchDetailedReservation(id, func(r *model.DetailedReservation, err error) {
		assert.NoError(t, err)
		updates <- r
	})
	defer l.Unregister()

	r := next(t, updates)
	assert.Equal(t, "Court 1", r.PlaygroundName)
	assert.Equal(t, "2024-06-01", r.Date)
	assert.Equal(t, "10:00", r.StartTime)
	assert.Equal(t, "12:00", r.EndTime)
	require.Len(t, r.Equipments, 1, "equipment is read from the first slot only")
	assert.Equal(t, 2, r.Equipments[0].SelectedQuantity)
	assert.InDelta(t, 20.0, r.Equipments[0].TotalPrice, 1e-9)

	renamed := p1
	renamed.PlaygroundName = "Center Court"
	require.NoError(t, env.catalog.Seed(ctx, nil, []model.PlaygroundSport{renamed}, nil))
	assert.Equal(t, "Center Court", next(t, updates).PlaygroundName)

	t.Run("missing reservation", func(t *testing.T) {
		errc := make(chan error, 1)
		l := env.store.WatchDetailedReservation("missing", func(_ *model.DetailedReservation, err error) {
			errc <- err
		})
		defer l.Unregister()
		assert.True(t, errs.Is(next(t, errc), errs.KindNotFound))
	})
}

func TestWatchAvailablePlaygroundsPerSlot(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u1", request("p1", time.Date(2024, 7, 1, 10, 0, 0, 0, time.Local), time.Date(2024, 7, 1, 11, 0, 0, 0, time.Local)))
	require.NoError(t, err)

	ids := func(playgrounds []model.DetailedPlaygroundSport) []string {
		out := []string{}
		for _, p := range playgrounds {
			out = append(out, p.PlaygroundID)
		}
		return out
	}

	updates := make(chan reservation.AvailabilityMap, 10)
	l := env.store.WatchAvailablePlaygroundsPerSlot(day(15, 0, 0), "tennis", func(m reservation.AvailabilityMap, err error) {
		assert.NoError(t, err)
		updates <- m
	})
	defer l.Unregister()

	m := next(t, updates)
	require.Len(t, m, 1, "only June slots are listed")
	require.Contains(t, m, "2024-06-01")
	assert.Equal(t, []string{"p2", "p3"}, ids(m["2024-06-01"]["2024-06-01T10:00:00"]))

	_, err = env.store.UpsertReservation(ctx, "u2", request("p3", day(1, 10, 0), day(1, 11, 0)))
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(next(t, updates)["2024-06-01"]["2024-06-01T10:00:00"]))

	t.Run("empty sport", func(t *testing.T) {
		var got reservation.AvailabilityMap
		l := env.store.WatchAvailablePlaygroundsPerSlot(day(1, 0, 0), "", func(m reservation.AvailabilityMap, err error) {
			assert.NoError(t, err)
			got = m
		})
		defer l.Unregister()
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestWatchReservationsPerDateByUserID(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	first, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u1", request("p4", day(2, 18, 0), day(2, 19, 0)))
	require.NoError(t, err)
	_, err = env.store.UpsertReservation(ctx, "u2", request("p2", day(1, 10, 0), day(1, 11, 0)))
	require.NoError(t, err)

	updates := make(chan map[string][]model.DetailedReservation, 10)
	l := env.store.WatchReservationsPerDateByUserID("u1", func(m map[string][]model.DetailedReservation, err error) {
		assert.NoError(t, err)
		updates <- m
	})
	defer l.Unregister()

	m := next(t, updates)
	require.Len(t, m, 2)
	require.Len(t, m["2024-06-01"], 1)
	assert.Equal(t, first, m["2024-06-01"][0].ID)
	assert.Equal(t, "Court 1", m["2024-06-01"][0].PlaygroundName)
	assert.Empty(t, m["2024-06-01"][0].Equipments)
	assert.Equal(t, "Padel 1", m["2024-06-02"][0].PlaygroundName)

	require.NoError(t, env.store.DeleteReservation(ctx, first))
	m = next(t, updates)
	assert.NotContains(t, m, "2024-06-01")
}

func TestWatchAvailableEquipments(t *testing.T) {
	env, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	id, err := env.store.UpsertReservation(ctx, "u1", request("p1", day(1, 10, 0), day(1, 11, 0), rackets(2)))
	require.NoError(t, err)

	availability := func(reservationID *string) map[string]int {
		t.Helper()
		equipments, err := feed.First(ctx, func(cb func([]model.Equipment, error)) *feed.Listener {
			return env.store.WatchAvailableEquipments("c1", "tennis", reservationID, day(1, 10, 0), day(1, 12, 0), cb)
		})
		require.NoError(t, err)
		out := map[string]int{}
		for _, e := range equipments {
			out[e.ID] = e.Availability
		}
		return out
	}

	assert.Equal(t, map[string]int{"e1": 3, "e2": 10}, availability(nil))
	assert.Equal(t, map[string]int{"e1": 5, "e2": 10}, availability(&id))
}
