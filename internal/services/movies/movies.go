package movies

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/lib/validator"
	"cineops/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type MoviesStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	GetByTmdbID(ctx context.Context, tmdbID int64) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}

type GenresStorage interface {
	List(ctx context.Context) ([]models.Genre, error)
}

type ReviewsReader interface {
	ForMovie(ctx context.Context, movieID int64) ([]models.Review, error)
}

type MovieService struct {
	log       *slog.Logger
	validator *govalidator.Validate
	storage   MoviesStorage
	genres    GenresStorage
	reviews   ReviewsReader
}

func New(log *slog.Logger, validator *govalidator.Validate, storage MoviesStorage, genres GenresStorage, reviews ReviewsReader) *MovieService {
	return &MovieService{
		log:       log,
		validator: validator,
		storage:   storage,
		genres:    genres,
		reviews:   reviews,
	}
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	Title       *string
	Overview    *string
	ReleaseDate *time.Time
	Runtime     *fields.MovieRuntime
	PosterURL   *string
	GenreIDs    []int32
}

func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) GetByTmdbID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	const op = "movies.MovieService.GetByTmdbID"
	log := s.log.With("op", op, "tmdb_id", tmdbID)
	movie, err := s.storage.GetByTmdbID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "tmdb_id", movie.TmdbID, "title", movie.Title)
	if err := validator.ValidateStruct(s.validator, movie); err != nil {
		log.Info("invalid movie", "err", err)
		return nil, err
	}
	created, err := s.storage.Insert(ctx, movie)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *MovieService) Update(ctx context.Context, id int64, params UpdateParams) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		movie.Title = *params.Title
	}
	if params.Overview != nil {
		movie.Overview = params.Overview
	}
	if params.ReleaseDate != nil {
		movie.ReleaseDate = params.ReleaseDate
	}
	if params.Runtime != nil {
		movie.Runtime = params.Runtime
	}
	if params.PosterURL != nil {
		movie.PosterURL = params.PosterURL
	}
	if params.GenreIDs != nil {
		movie.GenreIDs = params.GenreIDs
	}
	if err := validator.ValidateStruct(s.validator, movie); err != nil {
		log.Info("invalid movie", "err", err)
		return nil, err
	}
	updatedMovie, err := s.storage.Update(ctx, movie)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error("Error updating movie: " + err.Error())
		return nil, err
	}
	return updatedMovie, nil
}

// Delete removes the movie together with its reviews, favorites and list entries.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	log.Info("movie deleted")
	return nil
}

func (s *MovieService) Reviews(ctx context.Context, id int64) ([]models.Review, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ForMovie(ctx, id)
	if err != nil {
		s.log.Error(err.Error(), "op", "movies.MovieService.Reviews", "id", id)
		return nil, err
	}
	return reviews, nil
}

// Genres resolves the movie's genre ids against the genre table. Ids without a genre
// row are skipped since genre_ids is not a foreign key.
func (s *MovieService) Genres(ctx context.Context, id int64) ([]models.Genre, error) {
	const op = "movies.MovieService.Genres"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.genres.List(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	byID := make(map[int64]models.Genre, len(all))
	for _, g := range all {
		byID[g.ID] = g
	}
	genres := make([]models.Genre, 0, len(movie.GenreIDs))
	for _, gid := range movie.GenreIDs {
		if g, ok := byID[int64(gid)]; ok {
			genres = append(genres, g)
		} else {
			log.Debug("unknown genre id", "genre_id", gid)
		}
	}
	return genres, nil
}
