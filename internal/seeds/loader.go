// Package seeds reloads the genre and movie catalog from the processed TMDB exports.
//
// A load replaces the catalog wholesale: favorites, list items, reviews and lists are
// removed along with the old movies and genres, because they reference rows that no
// longer exist after the reseed.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cineops/proj/internal/domain/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInputNotFound   = errors.New("input file not found")
	ErrMalformedRecord = errors.New("malformed record")
)

// CatalogStore is the storage the loader writes to. Replace must be atomic.
type CatalogStore interface {
	Replace(ctx context.Context, genres []models.Genre, movies []models.Movie) error
	Counts(ctx context.Context) (genres, movies int64, err error)
}

// Files names the two input exports.
type Files struct {
	Genres string
	Movies string
}

// FilesIn returns the paths of the two exports inside dir.
func FilesIn(dir, genres, movies string) Files {
	return Files{
		Genres: filepath.Join(dir, genres),
		Movies: filepath.Join(dir, movies),
	}
}

type Summary struct {
	Genres int64
	Movies int64
}

func (s Summary) String() string {
	return fmt.Sprintf("Loaded %d genres and %d movies.", s.Genres, s.Movies)
}

type Loader struct {
	log   *slog.Logger
	store CatalogStore
	files Files
	group singleflight.Group
}

func New(log *slog.Logger, store CatalogStore, files Files) *Loader {
	return &Loader{
		log:   log,
		store: store,
		files: files,
	}
}

// Load reads both files into memory and replaces the catalog with their contents. Callers
// that overlap within a process share one run and its result.
func (l *Loader) Load(ctx context.Context) (Summary, error) {
	v, err, shared := l.group.Do("load", func() (any, error) {
		return l.load(ctx)
	})
	if shared {
		l.log.Debug("joined a reseed already in progress")
	}
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

func (l *Loader) load(ctx context.Context) (Summary, error) {
	const op = "seeds.Loader.Load"
	log := l.log.With("op", op)

	for _, path := range []string{l.files.Genres, l.files.Movies} {
		if err := checkExists(path); err != nil {
			return Summary{}, err
		}
	}

	var (
		genres []models.Genre
		movies []models.Movie
		g      errgroup.Group
	)
	g.Go(func() error {
		var err error
		genres, err = ReadGenres(l.files.Genres)
		return err
	})
	g.Go(func() error {
		var err error
		movies, err = ReadMovies(l.files.Movies)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("read seed files: %w", err)
	}
	log.Info("parsed seed files", "genres", len(genres), "movies", len(movies))

	if err := l.store.Replace(ctx, genres, movies); err != nil {
		log.Error("catalog replace failed", "err", err)
		return Summary{}, fmt.Errorf("replace catalog: %w", err)
	}

	var s Summary
	var err error
	s.Genres, s.Movies, err = l.store.Counts(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count catalog: %w", err)
	}
	log.Info("catalog reloaded", "genres", s.Genres, "movies", s.Movies)
	return s, nil
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}
	return nil
}
