// Package app builds the application context shared by every command and
// the TUI: storage, API client, session and analysis viewer.
package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/config"
	"github.com/duskwallet/duskwallet/internal/guard"
	"github.com/duskwallet/duskwallet/internal/session"
	"github.com/duskwallet/duskwallet/internal/store"
)

// Storage is durable key-value storage that can be closed.
type Storage interface {
	store.Storage
	Close() error
}

// App is the explicitly constructed application context.
type App struct {
	Config  config.Config
	Log     *logrus.Logger
	Storage Storage
	Client  *api.Client
	Cache   *analysis.Cache
	Session *session.Store
	Viewer  *analysis.Viewer
}

// Open opens storage at cfg.StoragePath and wires the rest.
func Open(cfg config.Config, logger *logrus.Logger) (*App, error) {
	db, err := store.Open(cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return New(cfg, logger, db), nil
}

// New wires an App over existing storage and hydrates the session.
func New(cfg config.Config, logger *logrus.Logger, storage Storage) *App {
	a := &App{Config: cfg, Log: logger, Storage: storage}

	a.Client = api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithTokenSource(func() string { return a.Session.Token() }),
		api.WithLogger(logger),
		api.WithGetDedupe(cfg.API.DedupeGets),
	)
	a.Cache = analysis.NewCache(storage, logger)
	a.Session = session.New(storage, a.Client, a.Cache, logger)
	a.Viewer = analysis.NewViewer(a.Client, a.Cache, logger)
	a.Client.OnUnauthorized(a.Session.HandleUnauthorized)

	a.Session.Hydrate()
	return a
}

// Require guards a protected command.
func (a *App) Require(location string) error {
	return guard.Check(location, a.Session).Err()
}

// Close releases storage.
func (a *App) Close() error {
	return a.Storage.Close()
}
