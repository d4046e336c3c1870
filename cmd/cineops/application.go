package main

import (
	"context"
	"fmt"
	"log/slog"

	"cineops/proj/internal/config"
	"cineops/proj/internal/lib/logger"
	"cineops/proj/internal/seeds"
	"cineops/proj/internal/services"
	"cineops/proj/internal/storage/migrations"
	"cineops/proj/internal/storage/postgres"
	"cineops/proj/internal/storage/postgres/models"
)

type Application struct {
	cfg      *config.Config
	log      *slog.Logger
	storage  *postgres.Storage
	models   *models.Models
	services *services.Services
}

// NewApplication opens the shared pool. Close it when the command is done.
func NewApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Application, error) {
	opts := postgres.Options{
		MaxConns:        cfg.DB.MaxConns,
		MaxConnIdleTime: cfg.DB.MaxConnIdleTime,
	}
	if cfg.DB.LogQueries {
		opts.Tracer = logger.NewPgxTracer(log)
	}
	connectCtx := ctx
	if cfg.DB.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
		defer cancel()
	}
	storage, err := postgres.New(connectCtx, log, cfg.DB.URL, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Debug("database connection established")

	m := models.New(storage)
	return &Application{
		cfg:      cfg,
		log:      log,
		storage:  storage,
		models:   m,
		services: services.New(log, m),
	}, nil
}

func (app *Application) Close() {
	app.storage.Close()
}

func (app *Application) Migrator() (*migrations.Migrator, error) {
	return migrations.New(app.storage.Conn, app.log)
}

func (app *Application) Loader() *seeds.Loader {
	files := seeds.FilesIn(app.cfg.Seed.DataDir, app.cfg.Seed.GenresFile, app.cfg.Seed.MoviesFile)
	return seeds.New(app.log, app.models.Catalog, files)
}
