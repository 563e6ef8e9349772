package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTimeIsLexicographic(t *testing.T) {
	early := time.Date(2024, 6, 1, 9, 5, 0, 0, time.Local)
	late := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2024-06-01T09:05:00", FormatDateTime(early))
	assert.Less(t, FormatDateTime(early), FormatDateTime(late))
}

func TestFormatDateTimeNormalizesZone(t *testing.T) {
	instant := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	cest := instant.In(time.FixedZone("CEST", 2*60*60))
	pst := instant.In(time.FixedZone("PST", -8*60*60))

	assert.Equal(t, FormatDateTime(instant), FormatDateTime(cest))
	assert.Equal(t, FormatDateTime(instant), FormatDateTime(pst))
	assert.Equal(t, FormatDate(cest), FormatDate(pst))
	assert.Equal(t, MinuteOfDay(cest), MinuteOfDay(pst))
	assert.Equal(t, MinuteOfDay(instant.In(time.Local)), MinuteOfDay(cest))
}

func TestParseDateTime(t *testing.T) {
	t.Run("stored layout", func(t *testing.T) {
		parsed, err := ParseDateTime("2024-06-01T10:00:00")
		require.NoError(t, err)
		assert.Equal(t, 10, parsed.Hour())
	})

	t.Run("rfc3339 accepted", func(t *testing.T) {
		parsed, err := ParseDateTime("2024-06-01T10:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseDateTime("yesterday")
		assert.Error(t, err)
	})
}

func TestClock(t *testing.T) {
	minutes, err := Clock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, minutes)

	_, err = Clock("8h")
	assert.Error(t, err)
}

func TestNewDetailedReservation(t *testing.T) {
	root := PlaygroundReservation{
		ID:            "r1",
		User:          Participant{ID: "u1", Username: "alice"},
		PlaygroundID:  "p1",
		SportID:       "tennis",
		SportCenterID: "c1",
		StartDateTime: "2024-06-01T10:00:00",
		EndDateTime:   "2024-06-01T11:30:00",
		TotalPrice:    40,
	}
	playground := PlaygroundSport{
		ID:             "p1",
		PlaygroundName: "Court 1",
		SportName:      "Tennis",
		SportCenter:    SportCenter{ID: "c1", Name: "Centre", Address: "Via Roma 1"},
	}

	detailed, err := NewDetailedReservation(root, playground, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", detailed.Date)
	assert.Equal(t, "10:00", detailed.StartTime)
	assert.Equal(t, "11:30", detailed.EndTime)
	assert.Equal(t, "Court 1", detailed.PlaygroundName)
	assert.Equal(t, "Via Roma 1", detailed.Location)
	assert.NotNil(t, detailed.Equipments)
	assert.NotNil(t, detailed.Participants)

	root.StartDateTime = "not a date"
	_, err = NewDetailedReservation(root, playground, nil)
	assert.Error(t, err)
}

func TestNewPlaygroundInfo(t *testing.T) {
	info := NewPlaygroundInfo(PlaygroundSport{ID: "p1"}, []Review{
		{QualityRating: 4, FacilitiesRating: 2},
		{QualityRating: 2, FacilitiesRating: 2},
	})
	assert.InDelta(t, 3.0, info.OverallQualityRating, 1e-9)
	assert.InDelta(t, 2.0, info.OverallFacilitiesRating, 1e-9)
	assert.InDelta(t, 2.5, info.OverallRating, 1e-9)

	empty := NewPlaygroundInfo(PlaygroundSport{ID: "p2"}, nil)
	assert.Empty(t, empty.Reviews)
	assert.Zero(t, empty.OverallRating)
}

func TestSportPrintWithEmoji(t *testing.T) {
	s := Sport{Name: "Tennis", Emoji: "🎾"}
	assert.Equal(t, "🎾  Tennis", s.PrintWithEmoji(true))
	assert.Equal(t, "Tennis  🎾", s.String())
}

func TestParticipantArrayOperations(t *testing.T) {
	alice := Participant{ID: "u1", Username: "alice"}
	bob := Participant{ID: "u2", Username: "bob"}

	list := AddParticipant(nil, alice)
	list = AddParticipant(list, alice)
	assert.Equal(t, []Participant{alice}, list, "add is idempotent")

	list = AddParticipant(list, bob)
	list = append(list, alice)
	assert.Equal(t, []Participant{bob}, RemoveParticipant(list, alice), "remove drops every equal pair")
	assert.Equal(t, []Participant{}, RemoveParticipant(nil, alice))
}
