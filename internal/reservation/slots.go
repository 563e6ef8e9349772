package reservation

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/model"
)

var ErrInvalidRange = errors.New("reservation must end after it starts")

// SlotsFor splits [start, end) into consecutive slots of length d starting at
// start. The last slot is truncated at end.
func SlotsFor(start, end time.Time, d time.Duration) ([]Slot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if d <= 0 {
		return nil, fmt.Errorf("invalid slot duration %s", d)
	}
	var slots []Slot
	for s := start; s.Before(end); s = s.Add(d) {
		e := s.Add(d)
		if e.After(end) {
			e = end
		}
		slots = append(slots, Slot{Start: s, End: e})
	}
	return slots, nil
}

// Key is the stored form of the slot start.
func (s Slot) Key() string { return model.FormatDateTime(s.Start) }

// OpenPlaygroundsIDs returns, sorted, the ids of the playgrounds whose sport
// center is open for the whole slot. Hours are compared as clock times of day.
func OpenPlaygroundsIDs(slot Slot, playgrounds []model.PlaygroundSport) []string {
	start := model.MinuteOfDay(slot.Start)
	end := model.MinuteOfDay(slot.End)

	ids := []string{}
	for _, p := range playgrounds {
		opening, err := model.Clock(p.SportCenter.OpeningHours)
		if err != nil {
			log.Warn("Skipping playground with invalid opening hours", "playgroundID", p.ID, "error", err)
			continue
		}
		closing, err := model.Clock(p.SportCenter.ClosingHours)
		if err != nil {
			log.Warn("Skipping playground with invalid closing hours", "playgroundID", p.ID, "error", err)
			continue
		}
		if start >= opening && end <= closing {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// overlaps reports whether the stored range [start, end) overlaps the slot.
// Stored timestamps compare lexicographically.
func (s Slot) overlaps(start, end string) bool {
	return start < model.FormatDateTime(s.End) && end > s.Key()
}
