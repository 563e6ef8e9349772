package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/review"
	"golang.org/x/sync/errgroup"
)

// New creates a new CatalogStore. Playground info views read their reviews
// through reviews.
func New(db *sql.DB, hub feed.Hub, reviews review.ReviewStore) CatalogStore {
	return &store{
		db:      db,
		hub:     hub,
		reviews: reviews,
	}
}

func (s *store) GetAllSports(ctx context.Context) ([]model.Sport, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, emoji, max_players FROM sports ORDER BY name")
	if err != nil {
		return nil, errs.Default("GetAllSports", err)
	}
	defer rows.Close()

	sports := []model.Sport{}
	for rows.Next() {
		var sp model.Sport
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Emoji, &sp.MaxPlayers); err != nil {
			return nil, errs.Default("GetAllSports", err)
		}
		sports = append(sports, sp)
	}
	return sports, rows.Err()
}

func (s *store) GetSport(ctx context.Context, sportID string) (*model.Sport, error) {
	var sp model.Sport
	err := s.db.QueryRowContext(ctx, "SELECT id, name, emoji, max_players FROM sports WHERE id = ?", sportID).
		Scan(&sp.ID, &sp.Name, &sp.Emoji, &sp.MaxPlayers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetSport", sportID)
	}
	if err != nil {
		return nil, errs.Default("GetSport", err)
	}
	return &sp, nil
}

func (s *store) GetPlayground(ctx context.Context, playgroundID string) (*model.PlaygroundSport, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+playgroundColumns+" FROM playground_sports WHERE id = ?", playgroundID)
	p, err := scanPlayground(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetPlayground", playgroundID)
	}
	if err != nil {
		return nil, errs.Default("GetPlayground", err)
	}
	return p, nil
}

func (s *store) GetAllPlaygrounds(ctx context.Context) ([]model.PlaygroundSport, error) {
	playgrounds, err := s.queryPlaygrounds(ctx, "SELECT "+playgroundColumns+" FROM playground_sports ORDER BY id")
	if err != nil {
		return nil, errs.Default("GetAllPlaygrounds", err)
	}
	return playgrounds, nil
}

func (s *store) GetPlaygroundsBySportID(ctx context.Context, sportID string) ([]model.PlaygroundSport, error) {
	playgrounds, err := s.queryPlaygrounds(ctx, "SELECT "+playgroundColumns+" FROM playground_sports WHERE sport_id = ? ORDER BY id", sportID)
	if err != nil {
		return nil, errs.Default("GetPlaygroundsBySportID", err)
	}
	return playgrounds, nil
}

// GetPlaygroundsByIDs returns the requested playgrounds keyed by id. Unknown ids
// are absent from the result.
func (s *store) GetPlaygroundsByIDs(ctx context.Context, ids []string) (map[string]model.PlaygroundSport, error) {
	byID := make(map[string]model.PlaygroundSport, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	playgrounds, err := s.queryPlaygrounds(ctx, "SELECT "+playgroundColumns+" FROM playground_sports WHERE id IN ("+database.Placeholders(len(ids))+")", database.Args(ids)...)
	if err != nil {
		return nil, errs.Default("GetPlaygroundsByIDs", err)
	}
	for _, p := range playgrounds {
		byID[p.ID] = p
	}
	return byID, nil
}

// GetEquipments returns the equipments offered for a sport at a sport center with
// their full stock as availability.
func (s *store) GetEquipments(ctx context.Context, sportCenterID, sportID string) ([]model.Equipment, error) {
	equipments, err := s.queryEquipments(ctx, "SELECT "+equipmentColumns+" FROM equipments WHERE sport_center_id = ? AND sport_id = ? ORDER BY name", sportCenterID, sportID)
	if err != nil {
		return nil, errs.Default("GetEquipments", err)
	}
	return equipments, nil
}

// GetEquipmentsByIDs returns the requested equipments of (sportCenterID, sportID)
// keyed by id. Ids not offered there are absent from the result.
func (s *store) GetEquipmentsByIDs(ctx context.Context, sportCenterID, sportID string, ids []string) (map[string]model.Equipment, error) {
	byID := make(map[string]model.Equipment, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	args := append([]any{sportCenterID, sportID}, database.Args(ids)...)
	equipments, err := s.queryEquipments(ctx, "SELECT "+equipmentColumns+" FROM equipments WHERE sport_center_id = ? AND sport_id = ? AND id IN ("+database.Placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, errs.Default("GetEquipmentsByIDs", err)
	}
	for _, e := range equipments {
		byID[e.ID] = e
	}
	return byID, nil
}

func (s *store) WatchAllEquipments(sportCenterID, sportID string, cb func([]model.Equipment, error)) *feed.Listener {
	return feed.Watch(s.hub, []feed.Topic{feed.All(feed.Equipments)}, func(ctx context.Context) {
		equipments, err := s.GetEquipments(ctx, sportCenterID, sportID)
		feed.Deliver(ctx, cb, equipments, err)
	})
}

// WatchPlaygroundInfo follows a playground together with its reviews. The review
// subscription is derived from the playground document.
func (s *store) WatchPlaygroundInfo(playgroundID string, cb func(*model.PlaygroundInfo, error)) *feed.Listener {
	return feed.WatchNested(s.hub, []feed.Topic{feed.Doc(feed.PlaygroundSports, playgroundID)}, func(ctx context.Context, inner *feed.Inner) {
		p, err := s.GetPlayground(ctx, playgroundID)
		if err != nil {
			inner.Close()
			feed.Deliver[*model.PlaygroundInfo](ctx, cb, nil, err)
			return
		}
		inner.Replace(p.ID, feed.All(feed.Reviews))

		reviews, err := s.reviews.GetReviewsByPlaygroundID(ctx, p.ID)
		if err != nil {
			feed.Deliver[*model.PlaygroundInfo](ctx, cb, nil, err)
			return
		}
		info := model.NewPlaygroundInfo(*p, reviews)
		feed.Deliver(ctx, cb, &info, nil)
	})
}

// GetAllPlaygroundsInfo loads playgrounds and reviews concurrently and combines
// them.
func (s *store) GetAllPlaygroundsInfo(ctx context.Context) ([]model.PlaygroundInfo, error) {
	var (
		playgrounds []model.PlaygroundSport
		reviews     map[string][]model.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		playgrounds, err = s.GetAllPlaygrounds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.GetAllReviews(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("Failed to load playgrounds info", "error", err)
		return nil, err
	}

	infos := make([]model.PlaygroundInfo, 0, len(playgrounds))
	for _, p := range playgrounds {
		infos = append(infos, model.NewPlaygroundInfo(p, reviews[p.ID]))
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].OverallRating > infos[j].OverallRating
	})
	return infos, nil
}

// Seed writes the catalog in one transaction, replacing documents with the same id.
func (s *store) Seed(ctx context.Context, sports []model.Sport, playgrounds []model.PlaygroundSport, equipments []model.Equipment) error {
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, sp := range sports {
			if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO sports (id, name, emoji, max_players) VALUES (?, ?, ?, ?)",
				sp.ID, sp.Name, sp.Emoji, sp.MaxPlayers); err != nil {
				return fmt.Errorf("failed to seed sport %s: %w", sp.ID, err)
			}
		}
		for _, p := range playgrounds {
			if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO playground_sports ("+playgroundColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				p.ID, p.PlaygroundName, p.SportID, p.SportName, p.SportEmoji, p.SportCenter.ID, p.SportCenter.Name, p.SportCenter.Address,
				p.SportCenter.OpeningHours, p.SportCenter.ClosingHours, p.PricePerHour, p.MaxPlayers); err != nil {
				return fmt.Errorf("failed to seed playground %s: %w", p.ID, err)
			}
		}
		for _, e := range equipments {
			if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO equipments ("+equipmentColumns+") VALUES (?, ?, ?, ?, ?, ?)",
				e.ID, e.Name, e.SportID, e.SportCenterID, e.UnitPrice, e.MaxQuantity); err != nil {
				return fmt.Errorf("failed to seed equipment %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return errs.Default("Seed", err)
	}
	s.hub.Publish(feed.All(feed.Sports), feed.All(feed.PlaygroundSports), feed.All(feed.Equipments))
	log.Info("Seeded catalog", "sports", len(sports), "playgrounds", len(playgrounds), "equipments", len(equipments))
	return nil
}

func (s *store) queryPlaygrounds(ctx context.Context, query string, args ...any) ([]model.PlaygroundSport, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playgrounds := []model.PlaygroundSport{}
	for rows.Next() {
		p, err := scanPlayground(rows)
		if err != nil {
			return nil, err
		}
		playgrounds = append(playgrounds, *p)
	}
	return playgrounds, rows.Err()
}

func (s *store) queryEquipments(ctx context.Context, query string, args ...any) ([]model.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	equipments := []model.Equipment{}
	for rows.Next() {
		var e model.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.SportID, &e.SportCenterID, &e.UnitPrice, &e.MaxQuantity); err != nil {
			return nil, err
		}
		e.Availability = e.MaxQuantity
		equipments = append(equipments, e)
	}
	return equipments, rows.Err()
}

func scanPlayground(scanner interface{ Scan(...any) error }) (*model.PlaygroundSport, error) {
	var p model.PlaygroundSport
	err := scanner.Scan(&p.ID, &p.PlaygroundName, &p.SportID, &p.SportName, &p.SportEmoji,
		&p.SportCenter.ID, &p.SportCenter.Name, &p.SportCenter.Address, &p.SportCenter.OpeningHours, &p.SportCenter.ClosingHours,
		&p.PricePerHour, &p.MaxPlayers)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
