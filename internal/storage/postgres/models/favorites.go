package models

import (
	"context"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"
)

const favoriteColumns = "id, user_id, movie_id, created_at"

type FavoriteModel struct {
	DB *postgres.Storage
}

func (m *FavoriteModel) Insert(ctx context.Context, userID, movieID int64) (*models.UserFavorite, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"INSERT INTO user_favorites (user_id, movie_id) VALUES ($1, $2) RETURNING "+favoriteColumns,
		userID,
		movieID,
	)
	return collectOne[models.UserFavorite](rows, err)
}

func (m *FavoriteModel) Delete(ctx context.Context, userID, movieID int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM user_favorites WHERE user_id = $1 AND movie_id = $2", userID, movieID)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *FavoriteModel) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	var exists bool
	err := m.DB.Querier(ctx).QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND movie_id = $2)",
		userID,
		movieID,
	).Scan(&exists)
	return exists, postgres.MapError(err)
}

func (m *FavoriteModel) ForUser(ctx context.Context, userID int64) ([]models.UserFavorite, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+favoriteColumns+" FROM user_favorites WHERE user_id = $1 ORDER BY created_at, id", userID)
	return collectAll[models.UserFavorite](rows, err)
}

func (m *FavoriteModel) ForMovie(ctx context.Context, movieID int64) ([]models.UserFavorite, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+favoriteColumns+" FROM user_favorites WHERE movie_id = $1 ORDER BY created_at, id", movieID)
	return collectAll[models.UserFavorite](rows, err)
}
