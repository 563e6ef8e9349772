package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/user"
)

// New creates a new ReservationStore. Slots are slotDuration long.
func New(db *sql.DB, hub feed.Hub, users user.UserStore, catalog catalog.CatalogStore, events pubsub.PubSubClient, metrics metrics.Metrics, slotDuration time.Duration) ReservationStore {
	return &store{
		db:           db,
		hub:          hub,
		users:        users,
		catalog:      catalog,
		events:       events,
		metrics:      metrics,
		slotDuration: slotDuration,
	}
}

// UpsertReservation creates the reservation when req.ID is nil and overrides it
// otherwise. Availability is checked first, excluding the reservation being
// edited; the root document and all of its slot records are then written in one
// transaction. The checks run outside the transaction, so two requests racing for
// the same free slot can both succeed.
func (s *store) UpsertReservation(ctx context.Context, userID string, req model.NewReservation) (string, error) {
	const op = "UpsertReservation"
	began := time.Now()
	defer func() { s.metrics.ObserveWriteDuration(time.Since(began).Seconds()) }()

	// Clients may send any offset; slots and opening hours are local.
	req.StartTime, req.EndTime = req.StartTime.In(time.Local), req.EndTime.In(time.Local)
	slots, err := SlotsFor(req.StartTime, req.EndTime, s.slotDuration)
	if err != nil {
		return "", errs.Unexpected(op, err)
	}

	// (1) owner
	owner, err := s.users.GetUser(ctx, userID)
	if err != nil {
		log.Error("Failed to retrieve reservation owner", "error", err, "userID", userID)
		return "", errs.Unexpected(op, err)
	}

	// (2) records written by the previous version
	var oldSlotIDs, oldEquipmentSlotIDs []string
	if req.ID != nil {
		oldSlotIDs, err = database.QueryStrings(ctx, s.db, "SELECT id FROM reservation_slots WHERE reservation_id = ?", *req.ID)
		if err != nil {
			return "", errs.Unexpected(op, err)
		}
		oldEquipmentSlotIDs, err = database.QueryStrings(ctx, s.db, "SELECT id FROM equipment_reservation_slots WHERE playground_reservation_id = ?", *req.ID)
		if err != nil {
			return "", errs.Unexpected(op, err)
		}
	}

	// (3) availability
	if err := s.CheckSlotAvailability(ctx, req.PlaygroundID, req.StartTime, req.EndTime, req.ID); err != nil {
		if errs.Is(err, errs.KindSlotConflict) {
			s.metrics.IncSlotConflicts()
		}
		return "", err
	}
	if err := s.CheckEquipmentAvailability(ctx, req.SportID, req.SportCenterID, req.StartTime, req.EndTime, req.SelectedEquipments, req.ID); err != nil {
		if errs.Is(err, errs.KindEquipmentConflict) {
			s.metrics.IncEquipmentConflicts()
		}
		return "", err
	}

	// (4) catalog snapshot
	playgrounds, err := s.catalog.GetPlaygroundsBySportID(ctx, req.SportID)
	if err != nil {
		return "", errs.Unexpected(op, err)
	}
	playground, ok := findPlayground(playgrounds, req.PlaygroundID)
	if !ok {
		return "", errs.Unexpected(op, errs.NotFound("GetPlayground", req.PlaygroundID))
	}
	if playground.SportCenter.ID != req.SportCenterID {
		return "", errs.Unexpected(op, fmt.Errorf("playground %s belongs to sport center %s, not %s", req.PlaygroundID, playground.SportCenter.ID, req.SportCenterID))
	}
	requested, err := requestedQuantities(req.SelectedEquipments)
	if err != nil {
		return "", errs.Unexpected(op, err)
	}
	equipments, err := s.catalog.GetEquipmentsByIDs(ctx, req.SportCenterID, req.SportID, sortedKeys(requested))
	if err != nil {
		return "", errs.Unexpected(op, err)
	}

	ownerPair := model.Participant{ID: owner.ID, Username: owner.Username}
	totalPrice := TotalPrice(playground.PricePerHour, req.StartTime, req.EndTime, requested, equipments)
	timestamp := model.FormatDateTime(time.Now())

	// (5) write
	var reservationID string
	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteByIDs(ctx, tx, "reservation_slots", oldSlotIDs); err != nil {
			return err
		}
		if err := deleteByIDs(ctx, tx, "equipment_reservation_slots", oldEquipmentSlotIDs); err != nil {
			return err
		}

		if req.ID == nil {
			reservationID = uuid.New().String()
			participants, err := json.Marshal([]model.Participant{ownerPair})
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO playground_reservations (`+reservationColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				reservationID, ownerPair.ID, ownerPair.Username, req.PlaygroundID, req.SportID, req.SportCenterID,
				model.FormatDateTime(req.StartTime), model.FormatDateTime(req.EndTime), timestamp, totalPrice, string(participants))
			if err != nil {
				return fmt.Errorf("failed to insert reservation: %w", err)
			}
		} else {
			reservationID = *req.ID
			// Owner and participants are kept.
			res, err := tx.ExecContext(ctx, `
				UPDATE playground_reservations
				SET playground_id = ?, sport_id = ?, sport_center_id = ?, start_date_time = ?, end_date_time = ?, timestamp = ?, total_price = ?
				WHERE id = ?`,
				req.PlaygroundID, req.SportID, req.SportCenterID, model.FormatDateTime(req.StartTime), model.FormatDateTime(req.EndTime),
				timestamp, totalPrice, reservationID)
			if err != nil {
				return fmt.Errorf("failed to update reservation: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return errs.NotFound(op, reservationID)
			}
		}

		for _, slot := range slots {
			open, err := json.Marshal(OpenPlaygroundsIDs(slot, playgrounds))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reservation_slots (id, reservation_id, playground_id, sport_id, start_slot, end_slot, open_playgrounds_ids_json)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), reservationID, req.PlaygroundID, req.SportID, slot.Key(), model.FormatDateTime(slot.End), string(open))
			if err != nil {
				return fmt.Errorf("failed to insert reservation slot: %w", err)
			}

			for _, equipmentID := range sortedKeys(requested) {
				e := equipments[equipmentID]
				_, err = tx.ExecContext(ctx, `
					INSERT INTO equipment_reservation_slots (id, playground_reservation_id, playground_id, sport_id, sport_center_id,
						equipment_id, equipment_name, equipment_unit_price, equipment_max_quantity, selected_quantity, start_slot, end_slot)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					uuid.New().String(), reservationID, req.PlaygroundID, req.SportID, req.SportCenterID,
					e.ID, e.Name, e.UnitPrice, e.MaxQuantity, requested[equipmentID], slot.Key(), model.FormatDateTime(slot.End))
				if err != nil {
					return fmt.Errorf("failed to insert equipment reservation slot: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to save reservation", "error", err, "userID", userID, "playgroundID", req.PlaygroundID)
		return "", errs.Unexpected(op, err)
	}

	// (6) notify
	s.hub.Publish(
		feed.Doc(feed.PlaygroundReservations, reservationID),
		feed.Doc(feed.ReservationSlots, reservationID),
		feed.Doc(feed.EquipmentReservationSlots, reservationID),
	)
	s.metrics.IncReservationsSaved()
	event := pubsub.ReservationEvent{
		ReservationID: reservationID,
		UserID:        ownerPair.ID,
		Username:      ownerPair.Username,
		PlaygroundID:  req.PlaygroundID,
		SportID:       req.SportID,
		SportCenterID: req.SportCenterID,
		StartDateTime: model.FormatDateTime(req.StartTime),
		EndDateTime:   model.FormatDateTime(req.EndTime),
		TotalPrice:    totalPrice,
		Created:       req.ID == nil,
	}
	if err := s.events.SendMessage(pubsub.EventReservationSaved, event); err != nil {
		log.Error("Failed to publish reservation event", "error", err, "reservationID", reservationID)
	}
	log.Info("Saved reservation", "reservationID", reservationID, "created", req.ID == nil, "slots", len(slots), "equipments", len(requested))
	return reservationID, nil
}

// TotalPrice is the playground price for the reserved hours plus the price of
// every selected equipment. Ids missing from equipments cost nothing.
func TotalPrice(pricePerHour float64, start, end time.Time, requested map[string]int, equipments map[string]model.Equipment) float64 {
	total := pricePerHour * end.Sub(start).Hours()
	for id, qty := range requested {
		total += equipments[id].UnitPrice * float64(qty)
	}
	return total
}

func findPlayground(playgrounds []model.PlaygroundSport, id string) (model.PlaygroundSport, bool) {
	for _, p := range playgrounds {
		if p.ID == id {
			return p, true
		}
	}
	return model.PlaygroundSport{}, false
}

func deleteByIDs(ctx context.Context, tx *sql.Tx, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id IN ("+database.Placeholders(len(ids))+")", database.Args(ids)...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// GetReservation returns the reservation root document.
func (s *store) GetReservation(ctx context.Context, reservationID string) (*model.PlaygroundReservation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM playground_reservations WHERE id = ?", reservationID)
	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetReservation", reservationID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func scanReservation(scanner interface{ Scan(...any) error }) (*model.PlaygroundReservation, error) {
	var (
		r            model.PlaygroundReservation
		participants string
	)
	err := scanner.Scan(&r.ID, &r.User.ID, &r.User.Username, &r.PlaygroundID, &r.SportID, &r.SportCenterID,
		&r.StartDateTime, &r.EndDateTime, &r.Timestamp, &r.TotalPrice, &participants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errs.Default("GetReservation", err)
	}
	if err := json.Unmarshal([]byte(participants), &r.Participants); err != nil {
		return nil, errs.Deserialization("GetReservation", r.ID, err)
	}
	return &r, nil
}
