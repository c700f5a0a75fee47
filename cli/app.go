package cli

import (
	"fmt"
	"log"
	"time"

	"tasklist/config"
	"tasklist/database"
	"tasklist/store"
)

// app serve 和 shell 共用的组件
type app struct {
	store   *store.Store
	journal *database.DB
	loc     *time.Location
}

func newApp(cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []store.Option{store.WithDisplayLayout(cfg.Display.DateLayout)}

	var journal *database.DB
	if cfg.Journal.Enabled {
		journal, err = database.New(cfg.Journal.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
		opts = append(opts, store.WithListener(journal))
	}

	s := store.New(opts...)

	if cfg.SeedFile != "" {
		n, err := s.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			if journal != nil {
				journal.Close()
			}
			return nil, err
		}
		log.Printf("Loaded %d tasks from %s", n, cfg.SeedFile)
	}

	return &app{store: s, journal: journal, loc: loc}, nil
}

func (a *app) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}
