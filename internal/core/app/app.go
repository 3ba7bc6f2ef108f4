// Package app opens the database, seeds and stores behind one Catalog so
// every interface (CLI, TUI, HTTP, MCP) sees the same sessions.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/db"
	"github.com/neilberkman/runclub/internal/core/records"
	"github.com/neilberkman/runclub/internal/core/seeds"
	"github.com/neilberkman/runclub/internal/core/store"
)

type App struct {
	Config  *config.Config
	DB      *db.DB
	Catalog *catalog.Catalog
	Records *records.Repository
	Logger  *log.Logger

	sessions *store.Sessions
}

// Open wires an App from cfg. dbPath overrides cfg.DBPath when set.
func Open(cfg *config.Config, dbPath string, now time.Time) (*App, error) {
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no database path configured")
	}

	logger := log.Default()

	set, err := seeds.Load(cfg.SeedsPath, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load seeds: %w", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sessions := store.NewSessions(database, logger)
	joined := store.NewJoined(database, logger)

	return &App{
		Config:   cfg,
		DB:       database,
		Catalog:  catalog.New(sessions, joined, set.Sessions, set.Workouts, logger),
		Records:  records.NewRepository(database.Conn()),
		Logger:   logger,
		sessions: sessions,
	}, nil
}

// Close waits for background re-persists, then closes the database
func (a *App) Close() error {
	a.sessions.Wait()
	return a.DB.Close()
}
