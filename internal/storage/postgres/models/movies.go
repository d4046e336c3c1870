package models

import (
	"context"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"
)

const movieColumns = `id, tmdb_id, title, overview, release_date, runtime, poster_url, genre_ids,
	created_at, updated_at`

type MovieModel struct {
	DB *postgres.Storage
}

func (m *MovieModel) Get(ctx context.Context, id int64) (*models.Movie, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = $1", id)
	return collectOne[models.Movie](rows, err)
}

// GetByTmdbID looks a movie up by its natural key.
func (m *MovieModel) GetByTmdbID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+movieColumns+" FROM movies WHERE tmdb_id = $1", tmdbID)
	return collectOne[models.Movie](rows, err)
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		`INSERT INTO movies (tmdb_id, title, overview, release_date, runtime, poster_url, genre_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+movieColumns,
		movie.TmdbID,
		movie.Title,
		movie.Overview,
		movie.ReleaseDate,
		movie.Runtime,
		movie.PosterURL,
		movie.GenreIDs,
	)
	return collectOne[models.Movie](rows, err)
}

func (m *MovieModel) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		`UPDATE movies SET tmdb_id = $1, title = $2, overview = $3, release_date = $4, runtime = $5,
		poster_url = $6, genre_ids = $7, updated_at = now()
		WHERE id = $8
		RETURNING `+movieColumns,
		movie.TmdbID,
		movie.Title,
		movie.Overview,
		movie.ReleaseDate,
		movie.Runtime,
		movie.PosterURL,
		movie.GenreIDs,
		movie.ID,
	)
	return collectOne[models.Movie](rows, err)
}

// Delete removes the movie with its reviews, favorites and list items. Lists survive.
func (m *MovieModel) Delete(ctx context.Context, id int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *MovieModel) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.Querier(ctx).QueryRow(ctx, "SELECT count(*) FROM movies").Scan(&n)
	return n, postgres.MapError(err)
}
