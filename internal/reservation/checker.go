package reservation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/model"
)

// CheckSlotAvailability fails with a SlotConflictError when another reservation
// holds a slot of the playground overlapping [start, end). Ranges that only touch
// do not overlap.
func (s *store) CheckSlotAvailability(ctx context.Context, playgroundID string, start, end time.Time, excludeReservationID *string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reservation_id FROM reservation_slots
		WHERE playground_id = ? AND start_slot < ? AND end_slot > ?
		ORDER BY start_slot`,
		playgroundID, model.FormatDateTime(end), model.FormatDateTime(start))
	if err != nil {
		return errs.Unexpected("CheckSlotAvailability", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reservationID string
		if err := rows.Scan(&reservationID); err != nil {
			return errs.Unexpected("CheckSlotAvailability", err)
		}
		if excludeReservationID != nil && reservationID == *excludeReservationID {
			continue
		}
		log.Debug("Slot conflict", "playgroundID", playgroundID, "reservationID", reservationID)
		return &errs.SlotConflictError{PlaygroundID: playgroundID, ReservationID: reservationID}
	}
	if err := rows.Err(); err != nil {
		return errs.Unexpected("CheckSlotAvailability", err)
	}
	return nil
}

// CheckEquipmentAvailability fails with an EquipmentConflictError for the first
// selected equipment whose quantity exceeds what is left in [start, end).
// Selections of quantity zero are ignored. An equipment not offered for the sport
// at the sport center has nothing left.
func (s *store) CheckEquipmentAvailability(ctx context.Context, sportID, sportCenterID string, start, end time.Time, selected []model.SelectedEquipment, excludeReservationID *string) error {
	const op = "CheckEquipmentAvailability"
	requested, err := requestedQuantities(selected)
	if err != nil {
		return errs.Unexpected(op, err)
	}
	if len(requested) == 0 {
		return nil
	}
	ids := sortedKeys(requested)

	offered, err := s.catalog.GetEquipmentsByIDs(ctx, sportCenterID, sportID, ids)
	if err != nil {
		return errs.Unexpected(op, err)
	}
	occupied, err := s.maxOccupancy(ctx, ids, start, end, excludeReservationID)
	if err != nil {
		return errs.Unexpected(op, err)
	}

	for _, id := range ids {
		available := 0
		if e, ok := offered[id]; ok {
			available = max(e.MaxQuantity-occupied[id], 0)
		}
		if requested[id] > available {
			log.Debug("Equipment conflict", "equipmentID", id, "requested", requested[id], "available", available)
			return &errs.EquipmentConflictError{EquipmentID: id, Requested: requested[id], Available: available}
		}
	}
	return nil
}

// maxOccupancy returns, per equipment, the highest quantity already reserved in
// any slot of [start, end). Within a slot only records held at the same instant
// add up.
func (s *store) maxOccupancy(ctx context.Context, equipmentIDs []string, start, end time.Time, excludeReservationID *string) (map[string]int, error) {
	occupied := make(map[string]int, len(equipmentIDs))
	if len(equipmentIDs) == 0 {
		return occupied, nil
	}
	slots, err := SlotsFor(start, end, s.slotDuration)
	if err != nil {
		return nil, err
	}

	args := append(database.Args(equipmentIDs), model.FormatDateTime(end), model.FormatDateTime(start))
	rows, err := s.db.QueryContext(ctx, `
		SELECT playground_reservation_id, equipment_id, selected_quantity, start_slot, end_slot
		FROM equipment_reservation_slots
		WHERE equipment_id IN (`+database.Placeholders(len(equipmentIDs))+`) AND start_slot < ? AND end_slot > ?`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read equipment reservation slots: %w", err)
	}
	var records []heldRecord
	for rows.Next() {
		var r heldRecord
		if err := rows.Scan(&r.reservationID, &r.equipmentID, &r.quantity, &r.start, &r.end); err != nil {
			rows.Close()
			return nil, err
		}
		if excludeReservationID != nil && r.reservationID == *excludeReservationID {
			continue
		}
		records = append(records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		from, to := slot.Key(), model.FormatDateTime(slot.End)
		inSlot := make(map[string][]heldRecord)
		for _, r := range records {
			if slot.overlaps(r.start, r.end) {
				inSlot[r.equipmentID] = append(inSlot[r.equipmentID], r)
			}
		}
		for equipmentID, held := range inSlot {
			occupied[equipmentID] = max(occupied[equipmentID], peakQuantity(held, from, to))
		}
	}
	return occupied, nil
}

type heldRecord struct {
	reservationID, equipmentID string
	quantity                   int
	start, end                 string
}

// peakQuantity is the highest quantity held at one instant of [from, to). A
// record ending where another starts does not overlap it.
func peakQuantity(held []heldRecord, from, to string) int {
	type edge struct {
		at    string
		delta int
	}
	edges := make([]edge, 0, 2*len(held))
	for _, r := range held {
		edges = append(edges, edge{max(r.start, from), r.quantity}, edge{min(r.end, to), -r.quantity})
	}
	// Releases sort before acquisitions at the same instant.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})
	peak, current := 0, 0
	for _, e := range edges {
		current += e.delta
		peak = max(peak, current)
	}
	return peak
}

// requestedQuantities sums the selection per equipment, dropping zero quantities.
func requestedQuantities(selected []model.SelectedEquipment) (map[string]int, error) {
	requested := make(map[string]int, len(selected))
	for _, sel := range selected {
		if sel.SelectedQuantity < 0 {
			return nil, fmt.Errorf("negative quantity %d for equipment %s", sel.SelectedQuantity, sel.EquipmentID)
		}
		if sel.SelectedQuantity == 0 {
			continue
		}
		requested[sel.EquipmentID] += sel.SelectedQuantity
	}
	return requested, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
