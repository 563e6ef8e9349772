package model

import (
	"fmt"
	"time"
)

// Stored timestamps are zero-padded local ISO-8601 strings so that range filters
// can compare them lexicographically. Every time is converted to the local zone
// before formatting, so one instant always has one stored form.
const (
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	MonthLayout    = "2006-01"
)

func FormatDateTime(t time.Time) string { return t.In(time.Local).Format(DateTimeLayout) }

func FormatDate(t time.Time) string { return t.In(time.Local).Format(DateLayout) }

// ParseDateTime parses a stored timestamp. A trailing zone or fractional part, as
// written by other clients, is accepted.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t2.In(time.Local), nil
	}
	return time.Time{}, fmt.Errorf("invalid date time %q: %w", s, err)
}

// Clock returns the minutes since midnight of an HH:MM string.
func Clock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinuteOfDay returns the minutes since local midnight of t.
func MinuteOfDay(t time.Time) int {
	t = t.In(time.Local)
	return t.Hour()*60 + t.Minute()
}

// NewDetailedReservation joins a reservation root with its playground and equipment
// footprint. Date and times are parsed once from the stored strings.
func NewDetailedReservation(r PlaygroundReservation, p PlaygroundSport, equipments []EquipmentReservation) (*DetailedReservation, error) {
	start, err := ParseDateTime(r.StartDateTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateTime(r.EndDateTime)
	if err != nil {
		return nil, err
	}
	if equipments == nil {
		equipments = []EquipmentReservation{}
	}
	participants := r.Participants
	if participants == nil {
		participants = []Participant{}
	}
	return &DetailedReservation{
		ID:              r.ID,
		UserID:          r.User.ID,
		Username:        r.User.Username,
		PlaygroundID:    r.PlaygroundID,
		PlaygroundName:  p.PlaygroundName,
		SportID:         r.SportID,
		SportName:       p.SportName,
		SportEmoji:      p.SportEmoji,
		SportCenterID:   r.SportCenterID,
		SportCenterName: p.SportCenter.Name,
		Location:        p.SportCenter.Address,
		StartDateTime:   r.StartDateTime,
		EndDateTime:     r.EndDateTime,
		Date:            start.Format(DateLayout),
		StartTime:       start.Format(ClockLayout),
		EndTime:         end.Format(ClockLayout),
		TotalPrice:      r.TotalPrice,
		Participants:    participants,
		Equipments:      equipments,
	}, nil
}
