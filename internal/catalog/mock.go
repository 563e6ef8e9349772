package catalog

import (
	"context"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// MockStore is a mock implementation of the CatalogStore interface for testing.
type MockStore struct {
	GetAllSportsFunc            func(ctx context.Context) ([]model.Sport, error)
	GetSportFunc                func(ctx context.Context, sportID string) (*model.Sport, error)
	GetPlaygroundFunc           func(ctx context.Context, playgroundID string) (*model.PlaygroundSport, error)
	GetAllPlaygroundsFunc       func(ctx context.Context) ([]model.PlaygroundSport, error)
	GetPlaygroundsBySportIDFunc func(ctx context.Context, sportID string) ([]model.PlaygroundSport, error)
	GetPlaygroundsByIDsFunc     func(ctx context.Context, ids []string) (map[string]model.PlaygroundSport, error)
	GetEquipmentsFunc           func(ctx context.Context, sportCenterID, sportID string) ([]model.Equipment, error)
	GetEquipmentsByIDsFunc      func(ctx context.Context, sportCenterID, sportID string, ids []string) (map[string]model.Equipment, error)
	WatchAllEquipmentsFunc      func(sportCenterID, sportID string, cb func([]model.Equipment, error)) *feed.Listener
	WatchPlaygroundInfoFunc     func(playgroundID string, cb func(*model.PlaygroundInfo, error)) *feed.Listener
	GetAllPlaygroundsInfoFunc   func(ctx context.Context) ([]model.PlaygroundInfo, error)
	SeedFunc                    func(ctx context.Context, sports []model.Sport, playgrounds []model.PlaygroundSport, equipments []model.Equipment) error
}

var _ CatalogStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetAllSports(ctx context.Context) ([]model.Sport, error) {
	if m.GetAllSportsFunc != nil {
		return m.GetAllSportsFunc(ctx)
	}
	return []model.Sport{}, nil
}

func (m *MockStore) GetSport(ctx context.Context, sportID string) (*model.Sport, error) {
	if m.GetSportFunc != nil {
		return m.GetSportFunc(ctx, sportID)
	}
	return nil, errs.NotFound("GetSport", sportID)
}

func (m *MockStore) GetPlayground(ctx context.Context, playgroundID string) (*model.PlaygroundSport, error) {
	if m.GetPlaygroundFunc != nil {
		return m.GetPlaygroundFunc(ctx, playgroundID)
	}
	return nil, errs.NotFound("GetPlayground", playgroundID)
}

func (m *MockStore) GetAllPlaygrounds(ctx context.Context) ([]model.PlaygroundSport, error) {
	if m.GetAllPlaygroundsFunc != nil {
		return m.GetAllPlaygroundsFunc(ctx)
	}
	return []model.PlaygroundSport{}, nil
}

func (m *MockStore) GetPlaygroundsBySportID(ctx context.Context, sportID string) ([]model.PlaygroundSport, error) {
	if m.GetPlaygroundsBySportIDFunc != nil {
		return m.GetPlaygroundsBySportIDFunc(ctx, sportID)
	}
	return []model.PlaygroundSport{}, nil
}

func (m *MockStore) GetPlaygroundsByIDs(ctx context.Context, ids []string) (map[string]model.PlaygroundSport, error) {
	if m.GetPlaygroundsByIDsFunc != nil {
		return m.GetPlaygroundsByIDsFunc(ctx, ids)
	}
	return map[string]model.PlaygroundSport{}, nil
}

func (m *MockStore) GetEquipments(ctx context.Context, sportCenterID, sportID string) ([]model.Equipment, error) {
	if m.GetEquipmentsFunc != nil {
		return m.GetEquipmentsFunc(ctx, sportCenterID, sportID)
	}
	return []model.Equipment{}, nil
}

func (m *MockStore) GetEquipmentsByIDs(ctx context.Context, sportCenterID, sportID string, ids []string) (map[string]model.Equipment, error) {
	if m.GetEquipmentsByIDsFunc != nil {
		return m.GetEquipmentsByIDsFunc(ctx, sportCenterID, sportID, ids)
	}
	return map[string]model.Equipment{}, nil
}

func (m *MockStore) WatchAllEquipments(sportCenterID, sportID string, cb func([]model.Equipment, error)) *feed.Listener {
	if m.WatchAllEquipmentsFunc != nil {
		return m.WatchAllEquipmentsFunc(sportCenterID, sportID, cb)
	}
	cb([]model.Equipment{}, nil)
	return feed.NewListener()
}

func (m *MockStore) WatchPlaygroundInfo(playgroundID string, cb func(*model.PlaygroundInfo, error)) *feed.Listener {
	if m.WatchPlaygroundInfoFunc != nil {
		return m.WatchPlaygroundInfoFunc(playgroundID, cb)
	}
	cb(nil, errs.NotFound("GetPlaygroundInfo", playgroundID))
	return feed.NewListener()
}

func (m *MockStore) GetAllPlaygroundsInfo(ctx context.Context) ([]model.PlaygroundInfo, error) {
	if m.GetAllPlaygroundsInfoFunc != nil {
		return m.GetAllPlaygroundsInfoFunc(ctx)
	}
	return []model.PlaygroundInfo{}, nil
}

func (m *MockStore) Seed(ctx context.Context, sports []model.Sport, playgrounds []model.PlaygroundSport, equipments []model.Equipment) error {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx, sports, playgrounds, equipments)
	}
	return nil
}
