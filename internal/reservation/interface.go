package reservation

import (
	"context"
	"time"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// ReservationStore defines the reservation write path and its read-optimized views.
type ReservationStore interface {
	CheckSlotAvailability(ctx context.Context, playgroundID string, start, end time.Time, excludeReservationID *string) error
	CheckEquipmentAvailability(ctx context.Context, sportID, sportCenterID string, start, end time.Time, selected []model.SelectedEquipment, excludeReservationID *string) error
	UpsertReservation(ctx context.Context, userID string, req model.NewReservation) (string, error)
	DeleteReservation(ctx context.Context, reservationID string) error
	GetReservation(ctx context.Context, reservationID string) (*model.PlaygroundReservation, error)

	WatchDetailedReservation(reservationID string, cb func(*model.DetailedReservation, error)) *feed.Listener
	WatchAvailablePlaygroundsPerSlot(month time.Time, sportID string, cb func(AvailabilityMap, error)) *feed.Listener
	WatchReservationsPerDateByUserID(userID string, cb func(map[string][]model.DetailedReservation, error)) *feed.Listener
	WatchAvailableEquipments(sportCenterID, sportID string, reservationID *string, start, end time.Time, cb func([]model.Equipment, error)) *feed.Listener
}
