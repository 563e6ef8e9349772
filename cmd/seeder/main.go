package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/review"
	"github.com/mauv0809/sportapp/internal/user"
)

// Simplified config loading for the script. Without a Turso URL a local sqlite
// file is seeded.
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "sportapp.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	log.Info("Successfully connected to the database.", "remote", cfg["TURSO_PRIMARY_URL"] != "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	hub := feed.NewMemoryHub()
	catalogStore := catalog.New(db, hub, review.New(db, hub))
	sports, playgrounds, equipments := demoCatalog()
	if err := catalogStore.Seed(ctx, sports, playgrounds, equipments); err != nil {
		log.Fatalf("Failed to seed catalog: %s", err)
	}

	users := user.New(db, hub)
	for _, u := range demoUsers() {
		exists, err := users.UserExists(ctx, u.ID)
		if err != nil {
			log.Fatalf("Failed to check user %s: %s", u.ID, err)
		}
		if exists {
			log.Info("Demo user already exists", "userID", u.ID)
			continue
		}
		if err := users.InsertUser(ctx, u); err != nil {
			log.Fatalf("Failed to insert demo user %s: %s", u.ID, err)
		}
	}
	log.Info("Seeding complete!", "sports", len(sports), "playgrounds", len(playgrounds), "equipments", len(equipments))
}

type center struct {
	model.SportCenter
	courts map[string]int
}

// demoCatalog builds two sport centers with a few playgrounds and equipments per
// sport. Ids are stable so the seeder can be rerun.
func demoCatalog() ([]model.Sport, []model.PlaygroundSport, []model.Equipment) {
	sports := []model.Sport{
		{ID: "tennis", Name: "Tennis", Emoji: "🎾", MaxPlayers: 4},
		{ID: "padel", Name: "Padel", Emoji: "🏓", MaxPlayers: 4},
		{ID: "football", Name: "Football", Emoji: "⚽", MaxPlayers: 10},
	}
	centers := []center{
		{
			SportCenter: model.SportCenter{ID: "north", Name: "North Sports Center", Address: "1 Stadium Road", OpeningHours: "08:00", ClosingHours: "22:00"},
			courts:      map[string]int{"tennis": 3, "padel": 2},
		},
		{
			SportCenter: model.SportCenter{ID: "harbour", Name: "Harbour Arena", Address: "12 Quay Street", OpeningHours: "10:00", ClosingHours: "23:00"},
			courts:      map[string]int{"padel": 2, "football": 1},
		},
	}
	prices := map[string]float64{"tennis": 20, "padel": 24, "football": 60}

	var playgrounds []model.PlaygroundSport
	var equipments []model.Equipment
	for _, c := range centers {
		for _, sp := range sports {
			n := c.courts[sp.ID]
			if n == 0 {
				continue
			}
			for i := 1; i <= n; i++ {
				playgrounds = append(playgrounds, model.PlaygroundSport{
					ID:             fmt.Sprintf("%s-%s-%d", c.ID, sp.ID, i),
					PlaygroundName: fmt.Sprintf("%s court %d", sp.Name, i),
					SportID:        sp.ID,
					SportName:      sp.Name,
					SportEmoji:     sp.Emoji,
					SportCenter:    c.SportCenter,
					PricePerHour:   prices[sp.ID],
					MaxPlayers:     sp.MaxPlayers,
				})
			}
			equipments = append(equipments,
				model.Equipment{ID: fmt.Sprintf("%s-%s-racket", c.ID, sp.ID), Name: sp.Name + " racket", SportID: sp.ID, SportCenterID: c.ID, UnitPrice: 5, MaxQuantity: 2 * n * sp.MaxPlayers},
				model.Equipment{ID: fmt.Sprintf("%s-%s-balls", c.ID, sp.ID), Name: sp.Name + " balls", SportID: sp.ID, SportCenterID: c.ID, UnitPrice: 2, MaxQuantity: 5 * n},
			)
		}
	}
	return sports, playgrounds, equipments
}

func demoUsers() []model.User {
	return []model.User{
		{ID: "demo-alice", FirstName: "Alice", LastName: "Martin", Username: "alice", Location: "Lyon",
			SportLevels: []model.SportLevel{{SportID: "tennis", SportName: "Tennis", Level: model.LevelIntermediate}}},
		{ID: "demo-bob", FirstName: "Bob", LastName: "Durand", Username: "bob", Location: "Lyon",
			SportLevels: []model.SportLevel{{SportID: "padel", SportName: "Padel", Level: model.LevelBeginner}}},
		{ID: "demo-chloe", FirstName: "Chloe", LastName: "Petit", Username: "chloe", Location: "Grenoble",
			SportLevels: []model.SportLevel{{SportID: "football", SportName: "Football", Level: model.LevelExpert}}},
	}
}
