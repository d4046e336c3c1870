package models

import (
	"context"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage/postgres"
)

type GenreModel struct {
	DB *postgres.Storage
}

func (m *GenreModel) Insert(ctx context.Context, name string) (*models.Genre, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "INSERT INTO genres (name) VALUES ($1) RETURNING id, name", name)
	return collectOne[models.Genre](rows, err)
}

func (m *GenreModel) Get(ctx context.Context, id int64) (*models.Genre, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT id, name FROM genres WHERE id = $1", id)
	return collectOne[models.Genre](rows, err)
}

func (m *GenreModel) List(ctx context.Context) ([]models.Genre, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT id, name FROM genres ORDER BY id")
	return collectAll[models.Genre](rows, err)
}

func (m *GenreModel) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.Querier(ctx).QueryRow(ctx, "SELECT count(*) FROM genres").Scan(&n)
	return n, postgres.MapError(err)
}
