package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// MockStore is a mock implementation of the ReservationStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CheckSlotAvailabilityFunc            func(ctx context.Context, playgroundID string, start, end time.Time, exclude *string) error
	CheckEquipmentAvailabilityFunc       func(ctx context.Context, sportID, sportCenterID string, start, end time.Time, selected []model.SelectedEquipment, exclude *string) error
	UpsertReservationFunc                func(ctx context.Context, userID string, req model.NewReservation) (string, error)
	DeleteReservationFunc                func(ctx context.Context, reservationID string) error
	GetReservationFunc                   func(ctx context.Context, reservationID string) (*model.PlaygroundReservation, error)
	WatchDetailedReservationFunc         func(reservationID string, cb func(*model.DetailedReservation, error)) *feed.Listener
	WatchAvailablePlaygroundsPerSlotFunc func(month time.Time, sportID string, cb func(AvailabilityMap, error)) *feed.Listener
	WatchReservationsPerDateByUserIDFunc func(userID string, cb func(map[string][]model.DetailedReservation, error)) *feed.Listener
	WatchAvailableEquipmentsFunc         func(sportCenterID, sportID string, reservationID *string, start, end time.Time, cb func([]model.Equipment, error)) *feed.Listener

	// Call records
	UpsertReservationCalls []UpsertReservationCall
	DeleteReservationCalls []string
}

var _ ReservationStore = (*MockStore)(nil)

// UpsertReservationCall holds the arguments for a call to UpsertReservation.
type UpsertReservationCall struct {
	UserID  string
	Request model.NewReservation
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CheckSlotAvailability(ctx context.Context, playgroundID string, start, end time.Time, exclude *string) error {
	if m.CheckSlotAvailabilityFunc != nil {
		return m.CheckSlotAvailabilityFunc(ctx, playgroundID, start, end, exclude)
	}
	return nil
}

func (m *MockStore) CheckEquipmentAvailability(ctx context.Context, sportID, sportCenterID string, start, end time.Time, selected []model.SelectedEquipment, exclude *string) error {
	if m.CheckEquipmentAvailabilityFunc != nil {
		return m.CheckEquipmentAvailabilityFunc(ctx, sportID, sportCenterID, start, end, selected, exclude)
	}
	return nil
}

func (m *MockStore) UpsertReservation(ctx context.Context, userID string, req model.NewReservation) (string, error) {
	m.mu.Lock()
	m.UpsertReservationCalls = append(m.UpsertReservationCalls, UpsertReservationCall{UserID: userID, Request: req})
	m.mu.Unlock()
	if m.UpsertReservationFunc != nil {
		return m.UpsertReservationFunc(ctx, userID, req)
	}
	return "mock-reservation", nil
}

func (m *MockStore) DeleteReservation(ctx context.Context, reservationID string) error {
	m.mu.Lock()
	m.DeleteReservationCalls = append(m.DeleteReservationCalls, reservationID)
	m.mu.Unlock()
	if m.DeleteReservationFunc != nil {
		return m.DeleteReservationFunc(ctx, reservationID)
	}
	return nil
}

func (m *MockStore) GetReservation(ctx context.Context, reservationID string) (*model.PlaygroundReservation, error) {
	if m.GetReservationFunc != nil {
		return m.GetReservationFunc(ctx, reservationID)
	}
	return nil, errs.NotFound("GetReservation", reservationID)
}

func (m *MockStore) WatchDetailedReservation(reservationID string, cb func(*model.DetailedReservation, error)) *feed.Listener {
	if m.WatchDetailedReservationFunc != nil {
		return m.WatchDetailedReservationFunc(reservationID, cb)
	}
	cb(nil, errs.NotFound("GetDetailedReservation", reservationID))
	return feed.NewListener()
}

func (m *MockStore) WatchAvailablePlaygroundsPerSlot(month time.Time, sportID string, cb func(AvailabilityMap, error)) *feed.Listener {
	if m.WatchAvailablePlaygroundsPerSlotFunc != nil {
		return m.WatchAvailablePlaygroundsPerSlotFunc(month, sportID, cb)
	}
	cb(AvailabilityMap{}, nil)
	return feed.NewListener()
}

func (m *MockStore) WatchReservationsPerDateByUserID(userID string, cb func(map[string][]model.DetailedReservation, error)) *feed.Listener {
	if m.WatchReservationsPerDateByUserIDFunc != nil {
		return m.WatchReservationsPerDateByUserIDFunc(userID, cb)
	}
	cb(map[string][]model.DetailedReservation{}, nil)
	return feed.NewListener()
}

func (m *MockStore) WatchAvailableEquipments(sportCenterID, sportID string, reservationID *string, start, end time.Time, cb func([]model.Equipment, error)) *feed.Listener {
	if m.WatchAvailableEquipmentsFunc != nil {
		return m.WatchAvailableEquipmentsFunc(sportCenterID, sportID, reservationID, start, end, cb)
	}
	cb([]model.Equipment{}, nil)
	return feed.NewListener()
}
