package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/oyvinddd/officesports-sub001/internal/database"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "officesports.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	// Optional Turso credentials; empty means a local database file.
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

func seedDoc(docs store.DocumentStore, collection, id string, doc any) {
	key := store.Key{Collection: collection, ID: id}
	err := docs.Update(context.Background(), []store.Key{key}, func(current map[store.Key]json.RawMessage) (map[store.Key]json.RawMessage, error) {
		if current[key] != nil {
			// Already seeded; leave it alone.
			return nil, nil
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return map[store.Key]json.RawMessage{key: data}, nil
	})
	if err != nil {
		log.Fatalf("Failed to seed %s/%s: %s", collection, id, err)
	}
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	docs := store.New(db)

	teams := []*ledger.Team{
		{ID: "oslo", Name: "Oslo Office"},
		{ID: "bergen", Name: "Bergen Office"},
	}
	for _, team := range teams {
		seedDoc(docs, ledger.CollectionTeams, team.ID, team)
	}
	log.Info("Ensured teams exist.", "count", len(teams))

	players := []*ledger.Player{
		{ID: "player-1", Name: "Seeder Player A", Nickname: "ace", Emoji: "🤩", TeamID: "oslo"},
		{ID: "player-2", Name: "Seeder Player B", Nickname: "blitz", Emoji: "😎", TeamID: "oslo"},
		{ID: "player-3", Name: "Seeder Player C", Nickname: "crusher", Emoji: "😤", TeamID: "oslo"},
		{ID: "player-4", Name: "Seeder Player D", Nickname: "dynamo", Emoji: "🔥", TeamID: "bergen"},
		{ID: "player-5", Name: "Seeder Player E", Nickname: "eel", Emoji: "🐍", TeamID: "bergen"},
	}
	for _, p := range players {
		seedDoc(docs, ledger.CollectionPlayers, p.ID, p)
	}
	log.Info("Ensured players exist.", "count", len(players))

	log.Info("Seeding finished. Stats entries are created on a player's first match.")
}
