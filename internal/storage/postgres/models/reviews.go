package models

import (
	"context"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"
)

const reviewColumns = "id, user_id, movie_id, rating, body, created_at, updated_at"

type ReviewModel struct {
	DB *postgres.Storage
}

func (m *ReviewModel) Insert(ctx context.Context, userID, movieID int64, rating float64, body *string) (*models.Review, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"INSERT INTO reviews (user_id, movie_id, rating, body) VALUES ($1, $2, $3, $4) RETURNING "+reviewColumns,
		userID,
		movieID,
		rating,
		body,
	)
	return collectOne[models.Review](rows, err)
}

func (m *ReviewModel) Get(ctx context.Context, id int64) (*models.Review, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	return collectOne[models.Review](rows, err)
}

func (m *ReviewModel) Update(ctx context.Context, id int64, rating float64, body *string) (*models.Review, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"UPDATE reviews SET rating = $1, body = $2, updated_at = now() WHERE id = $3 RETURNING "+reviewColumns,
		rating,
		body,
		id,
	)
	return collectOne[models.Review](rows, err)
}

func (m *ReviewModel) Delete(ctx context.Context, id int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ReviewModel) ForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE movie_id = $1 ORDER BY created_at, id", movieID)
	return collectAll[models.Review](rows, err)
}

func (m *ReviewModel) ForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE user_id = $1 ORDER BY created_at, id", userID)
	return collectAll[models.Review](rows, err)
}
