package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
	"golang.org/x/sync/errgroup"
)

// WatchDetailedReservation follows a reservation joined with its playground and
// equipment. The playground subscription is derived from the reservation and is
// only replaced when the reservation moves to another playground or start time.
func (s *store) WatchDetailedReservation(reservationID string, cb func(*model.DetailedReservation, error)) *feed.Listener {
	outer := []feed.Topic{feed.Doc(feed.PlaygroundReservations, reservationID)}
	return feed.WatchNested(s.hub, outer, func(ctx context.Context, inner *feed.Inner) {
		r, err := s.GetReservation(ctx, reservationID)
		if err != nil {
			inner.Close()
			feed.Deliver[*model.DetailedReservation](ctx, cb, nil, err)
			return
		}
		inner.Replace(r.PlaygroundID+"@"+r.StartDateTime,
			feed.Doc(feed.PlaygroundSports, r.PlaygroundID),
			feed.Doc(feed.EquipmentReservationSlots, r.ID),
		)

		var (
			playground *model.PlaygroundSport
			equipments []model.EquipmentReservation
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			playground, err = s.catalog.GetPlayground(gctx, r.PlaygroundID)
			return err
		})
		g.Go(func() error {
			var err error
			equipments, err = s.reservedEquipments(gctx, r.ID, r.StartDateTime)
			return err
		})
		if err := g.Wait(); err != nil {
			feed.Deliver[*model.DetailedReservation](ctx, cb, nil, err)
			return
		}

		detailed, err := model.NewDetailedReservation(*r, *playground, equipments)
		if err != nil {
			feed.Deliver[*model.DetailedReservation](ctx, cb, nil, errs.Deserialization("GetDetailedReservation", r.ID, err))
			return
		}
		feed.Deliver(ctx, cb, detailed, nil)
	})
}

// reservedEquipments reads the equipment footprint from the slot records of the
// first slot, which every slot repeats.
func (s *store) reservedEquipments(ctx context.Context, reservationID, startSlot string) ([]model.EquipmentReservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT equipment_id, equipment_name, equipment_unit_price, selected_quantity
		FROM equipment_reservation_slots
		WHERE playground_reservation_id = ? AND start_slot = ?
		ORDER BY equipment_name`,
		reservationID, startSlot)
	if err != nil {
		return nil, errs.Default("GetDetailedReservation", err)
	}
	defer rows.Close()

	equipments := []model.EquipmentReservation{}
	for rows.Next() {
		var e model.EquipmentReservation
		if err := rows.Scan(&e.EquipmentID, &e.EquipmentName, &e.UnitPrice, &e.SelectedQuantity); err != nil {
			return nil, errs.Default("GetDetailedReservation", err)
		}
		e.TotalPrice = e.UnitPrice * float64(e.SelectedQuantity)
		equipments = append(equipments, e)
	}
	return equipments, rows.Err()
}

// WatchAvailablePlaygroundsPerSlot lists, for every reserved slot of the month,
// the playgrounds of the sport that are open and still free. Slots nobody reserved
// are not listed. An empty sport id yields an empty map once and no subscription.
func (s *store) WatchAvailablePlaygroundsPerSlot(month time.Time, sportID string, cb func(AvailabilityMap, error)) *feed.Listener {
	if sportID == "" {
		cb(AvailabilityMap{}, nil)
		return feed.NewListener()
	}

	month = month.In(time.Local)
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)
	topics := []feed.Topic{feed.All(feed.ReservationSlots), feed.All(feed.PlaygroundSports)}

	return feed.Watch(s.hub, topics, func(ctx context.Context) {
		availability, err := s.availablePlaygroundsPerSlot(ctx, sportID, from, to)
		feed.Deliver(ctx, cb, availability, err)
	})
}

func (s *store) availablePlaygroundsPerSlot(ctx context.Context, sportID string, from, to time.Time) (AvailabilityMap, error) {
	const op = "GetAvailablePlaygroundsPerSlot"

	playgrounds, err := s.catalog.GetPlaygroundsBySportID(ctx, sportID)
	if err != nil {
		return nil, err
	}
	availability := AvailabilityMap{}
	if len(playgrounds) == 0 {
		return availability, nil
	}
	byID := make(map[string]model.PlaygroundSport, len(playgrounds))
	ids := make([]string, 0, len(playgrounds))
	for _, p := range playgrounds {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	type slotState struct {
		open []string
		busy map[string]bool
	}
	args := append(database.Args(ids), model.FormatDateTime(from), model.FormatDateTime(to))
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.start_slot, s.playground_id, s.open_playgrounds_ids_json
		FROM reservation_slots s
		WHERE s.playground_id IN (`+database.Placeholders(len(ids))+`) AND s.start_slot >= ? AND s.start_slot < ?
		ORDER BY s.start_slot, s.id`,
		args...)
	if err != nil {
		return nil, errs.Default(op, err)
	}
	slots := map[string]*slotState{}
	for rows.Next() {
		var startSlot, playgroundID, openJSON string
		if err := rows.Scan(&startSlot, &playgroundID, &openJSON); err != nil {
			rows.Close()
			return nil, errs.Default(op, err)
		}
		st, ok := slots[startSlot]
		if !ok {
			// The open set of the first record stands for the whole slot.
			var open []string
			if err := decodeJSON(openJSON, &open); err != nil {
				rows.Close()
				return nil, errs.Deserialization(op, startSlot, err)
			}
			st = &slotState{open: open, busy: map[string]bool{}}
			slots[startSlot] = st
		}
		st.busy[playgroundID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.Default(op, err)
	}

	for startSlot, st := range slots {
		start, err := model.ParseDateTime(startSlot)
		if err != nil {
			return nil, errs.Deserialization(op, startSlot, err)
		}
		free := []string{}
		for _, id := range st.open {
			if !st.busy[id] {
				free = append(free, id)
			}
		}
		sort.Strings(free)

		available := make([]model.DetailedPlaygroundSport, 0, len(free))
		for _, id := range free {
			p, ok := byID[id]
			if !ok {
				log.Warn("Open playground no longer offers the sport", "playgroundID", id, "sportID", sportID)
				continue
			}
			available = append(available, p.Detailed())
		}

		date := model.FormatDate(start)
		if availability[date] == nil {
			availability[date] = map[string][]model.DetailedPlaygroundSport{}
		}
		availability[date][startSlot] = available
	}
	return availability, nil
}

// WatchReservationsPerDateByUserID groups, by date, the reservations the user
// takes part in. Equipment is not loaded.
func (s *store) WatchReservationsPerDateByUserID(userID string, cb func(map[string][]model.DetailedReservation, error)) *feed.Listener {
	topics := []feed.Topic{feed.All(feed.PlaygroundReservations), feed.All(feed.PlaygroundSports)}
	return feed.Watch(s.hub, topics, func(ctx context.Context) {
		perDate, err := s.reservationsPerDateByUserID(ctx, userID)
		feed.Deliver(ctx, cb, perDate, err)
	})
}

func (s *store) reservationsPerDateByUserID(ctx context.Context, userID string) (map[string][]model.DetailedReservation, error) {
	const op = "GetReservationsPerDateByUserID"

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT `+prefixed("r.", reservationColumns)+`
		FROM playground_reservations r, json_each(r.participants_json) p
		WHERE json_extract(p.value, '$.id') = ?
		ORDER BY r.start_date_time, r.id`,
		userID)
	if err != nil {
		return nil, errs.Default(op, err)
	}
	var reservations []model.PlaygroundReservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.Default(op, err)
	}

	ids := make(map[string]struct{}, len(reservations))
	for _, r := range reservations {
		ids[r.PlaygroundID] = struct{}{}
	}
	playgrounds, err := s.catalog.GetPlaygroundsByIDs(ctx, sortedKeys(ids))
	if err != nil {
		return nil, err
	}

	perDate := map[string][]model.DetailedReservation{}
	for _, r := range reservations {
		p, ok := playgrounds[r.PlaygroundID]
		if !ok {
			log.Warn("Reservation on unknown playground", "reservationID", r.ID, "playgroundID", r.PlaygroundID)
			continue
		}
		detailed, err := model.NewDetailedReservation(r, p, nil)
		if err != nil {
			return nil, errs.Deserialization(op, r.ID, err)
		}
		perDate[detailed.Date] = append(perDate[detailed.Date], *detailed)
	}
	return perDate, nil
}

// WatchAvailableEquipments lists the equipments of the sport at the sport center
// with what is left of each in [start, end). The reservation being edited, if
// any, does not count.
func (s *store) WatchAvailableEquipments(sportCenterID, sportID string, reservationID *string, start, end time.Time, cb func([]model.Equipment, error)) *feed.Listener {
	topics := []feed.Topic{feed.All(feed.Equipments), feed.All(feed.EquipmentReservationSlots)}
	return feed.Watch(s.hub, topics, func(ctx context.Context) {
		equipments, err := s.availableEquipments(ctx, sportCenterID, sportID, reservationID, start, end)
		feed.Deliver(ctx, cb, equipments, err)
	})
}

func (s *store) availableEquipments(ctx context.Context, sportCenterID, sportID string, reservationID *string, start, end time.Time) ([]model.Equipment, error) {
	equipments, err := s.catalog.GetEquipments(ctx, sportCenterID, sportID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(equipments))
	for _, e := range equipments {
		ids = append(ids, e.ID)
	}
	occupied, err := s.maxOccupancy(ctx, ids, start, end, reservationID)
	if err != nil {
		return nil, errs.Default("GetAvailableEquipments", err)
	}
	for i := range equipments {
		equipments[i].Availability = max(equipments[i].MaxQuantity-occupied[equipments[i].ID], 0)
	}
	return equipments, nil
}

func prefixed(prefix, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func decodeJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid json column: %w", err)
	}
	return nil
}
