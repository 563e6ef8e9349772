package reservation

import (
	"testing"
	"time"

	"github.com/mauv0809/sportapp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.Local)
}

func TestSlotsFor(t *testing.T) {
	t.Run("whole hours", func(t *testing.T) {
		slots, err := SlotsFor(at(10, 0), at(12, 0), time.Hour)
		require.NoError(t, err)
		assert.Equal(t, []Slot{{at(10, 0), at(11, 0)}, {at(11, 0), at(12, 0)}}, slots)
	})

	t.Run("last slot truncated", func(t *testing.T) {
		slots, err := SlotsFor(at(10, 30), at(12, 0), time.Hour)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, at(11, 30), slots[0].End)
		assert.Equal(t, Slot{at(11, 30), at(12, 0)}, slots[1])
	})

	t.Run("empty range rejected", func(t *testing.T) {
		_, err := SlotsFor(at(10, 0), at(10, 0), time.Hour)
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = SlotsFor(at(11, 0), at(10, 0), time.Hour)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := SlotsFor(at(10, 0), at(11, 0), 0)
		assert.Error(t, err)
	})
}

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "2024-06-01T09:00:00", Slot{Start: at(9, 0), End: at(10, 0)}.Key())
}

func TestOpenPlaygroundsIDs(t *testing.T) {
	center := func(opening, closing string) model.SportCenter {
		return model.SportCenter{ID: "c", OpeningHours: opening, ClosingHours: closing}
	}
	playgrounds := []model.PlaygroundSport{
		{ID: "p2", SportCenter: center("08:00", "22:00")},
		{ID: "p1", SportCenter: center("08:00", "22:00")},
		{ID: "late", SportCenter: center("12:00", "23:00")},
		{ID: "broken", SportCenter: center("8am", "22:00")},
	}

	cases := []struct {
		name string
		slot Slot
		want []string
	}{
		{"morning", Slot{at(10, 0), at(11, 0)}, []string{"p1", "p2"}},
		{"closing boundary", Slot{at(21, 0), at(22, 0)}, []string{"late", "p1", "p2"}},
		{"after closing", Slot{at(22, 0), at(23, 0)}, []string{"late"}},
		{"before opening", Slot{at(7, 30), at(8, 30)}, []string{}},
		// The end clock wraps to 00:00 and so is never after closing.
		{"ending at midnight", Slot{at(23, 0), at(24, 0)}, []string{"late", "p1", "p2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OpenPlaygroundsIDs(tc.slot, playgrounds))
		})
	}
}

func TestSlotOverlaps(t *testing.T) {
	slot := Slot{at(10, 0), at(11, 0)}
	assert.True(t, slot.overlaps("2024-06-01T10:30:00", "2024-06-01T11:30:00"))
	assert.True(t, slot.overlaps("2024-06-01T09:00:00", "2024-06-01T12:00:00"))
	assert.False(t, slot.overlaps("2024-06-01T11:00:00", "2024-06-01T12:00:00"))
	assert.False(t, slot.overlaps("2024-06-01T09:00:00", "2024-06-01T10:00:00"))
}

func TestRequestedQuantities(t *testing.T) {
	requested, err := requestedQuantities([]model.SelectedEquipment{
		{EquipmentID: "b", SelectedQuantity: 1},
		{EquipmentID: "a", SelectedQuantity: 0},
		{EquipmentID: "b", SelectedQuantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 3}, requested)

	_, err = requestedQuantities([]model.SelectedEquipment{{EquipmentID: "a", SelectedQuantity: -1}})
	assert.Error(t, err)
}

func TestTotalPrice(t *testing.T) {
	equipments := map[string]model.Equipment{"e": {ID: "e", UnitPrice: 10}}
	assert.InDelta(t, 40.0, TotalPrice(20, at(10, 0), at(11, 0), map[string]int{"e": 2}, equipments), 1e-9)
	assert.InDelta(t, 30.0, TotalPrice(20, at(10, 0), at(11, 30), nil, equipments), 1e-9)
	assert.InDelta(t, 20.0, TotalPrice(20, at(10, 0), at(11, 0), map[string]int{"unknown": 3}, equipments), 1e-9)
}

func TestPeakQuantity(t *testing.T) {
	held := func(start, end string, qty int) heldRecord {
		return heldRecord{reservationID: start, equipmentID: "e", quantity: qty, start: start, end: end}
	}
	from, to := "2024-06-01T10:00:00", "2024-06-01T11:00:00"

	assert.Equal(t, 3, peakQuantity([]heldRecord{
		held("2024-06-01T09:30:00", "2024-06-01T10:30:00", 3),
		held("2024-06-01T10:30:00", "2024-06-01T11:30:00", 2),
	}, from, to))
	assert.Equal(t, 5, peakQuantity([]heldRecord{
		held("2024-06-01T10:00:00", "2024-06-01T11:00:00", 3),
		held("2024-06-01T10:45:00", "2024-06-01T11:30:00", 2),
	}, from, to))
	assert.Zero(t, peakQuantity(nil, from, to))
}
