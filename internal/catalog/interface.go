package catalog

import (
	"context"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// CatalogStore defines the interface for the static catalog: sports, playgrounds
// and equipments.
type CatalogStore interface {
	GetAllSports(ctx context.Context) ([]model.Sport, error)
	GetSport(ctx context.Context, sportID string) (*model.Sport, error)
	GetPlayground(ctx context.Context, playgroundID string) (*model.PlaygroundSport, error)
	GetAllPlaygrounds(ctx context.Context) ([]model.PlaygroundSport, error)
	GetPlaygroundsBySportID(ctx context.Context, sportID string) ([]model.PlaygroundSport, error)
	GetPlaygroundsByIDs(ctx context.Context, ids []string) (map[string]model.PlaygroundSport, error)
	GetEquipments(ctx context.Context, sportCenterID, sportID string) ([]model.Equipment, error)
	GetEquipmentsByIDs(ctx context.Context, sportCenterID, sportID string, ids []string) (map[string]model.Equipment, error)
	WatchAllEquipments(sportCenterID, sportID string, cb func([]model.Equipment, error)) *feed.Listener
	WatchPlaygroundInfo(playgroundID string, cb func(*model.PlaygroundInfo, error)) *feed.Listener
	GetAllPlaygroundsInfo(ctx context.Context) ([]model.PlaygroundInfo, error)
	Seed(ctx context.Context, sports []model.Sport, playgrounds []model.PlaygroundSport, equipments []model.Equipment) error
}
