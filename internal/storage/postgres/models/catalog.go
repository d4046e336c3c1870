package models

import (
	"context"
	"fmt"
	"strings"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/schema"
	"cineops/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

// CatalogModel replaces the genre and movie catalog as a whole.
type CatalogModel struct {
	DB *postgres.Storage
}

var (
	genreCopyColumns = []string{"id", "name"}
	movieCopyColumns = []string{"tmdb_id", "title", "overview", "release_date", "runtime", "poster_url", "genre_ids"}
)

// Replace empties every catalog table (favorites, list items, reviews, lists, movies, genres),
// restarts their identity sequences and copies in the given rows, all in one transaction.
// Genre ids are kept as given and the genre sequence is moved past the largest one. Movies
// receive ids 1..N in slice order.
func (m *CatalogModel) Replace(ctx context.Context, genres []models.Genre, movies []models.Movie) error {
	return m.DB.RunInTransaction(ctx, func(ctx context.Context) error {
		q := m.DB.Querier(ctx)

		truncate := "TRUNCATE TABLE " + strings.Join(schema.CatalogTables, ", ") + " RESTART IDENTITY CASCADE"
		if _, err := q.Exec(ctx, truncate); err != nil {
			return fmt.Errorf("truncate catalog: %w", postgres.MapError(err))
		}

		_, err := q.CopyFrom(ctx, pgx.Identifier{schema.TableGenres}, genreCopyColumns,
			pgx.CopyFromSlice(len(genres), func(i int) ([]any, error) {
				return []any{genres[i].ID, genres[i].Name}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy genres: %w", postgres.MapError(err))
		}

		_, err = q.Exec(ctx, `SELECT setval(pg_get_serial_sequence('genres', 'id'),
			COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM genres`)
		if err != nil {
			return fmt.Errorf("sync genre sequence: %w", postgres.MapError(err))
		}

		_, err = q.CopyFrom(ctx, pgx.Identifier{schema.TableMovies}, movieCopyColumns,
			pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
				mv := movies[i]
				return []any{mv.TmdbID, mv.Title, mv.Overview, mv.ReleaseDate, mv.Runtime, mv.PosterURL, mv.GenreIDs}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy movies: %w", postgres.MapError(err))
		}
		return nil
	})
}

// Counts returns the number of genre and movie rows.
func (m *CatalogModel) Counts(ctx context.Context) (genres, movies int64, err error) {
	err = m.DB.Querier(ctx).QueryRow(ctx,
		"SELECT (SELECT count(*) FROM genres), (SELECT count(*) FROM movies)",
	).Scan(&genres, &movies)
	return genres, movies, postgres.MapError(err)
}
