package seeds

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cineops/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu       sync.Mutex
	genres   []models.Genre
	movies   []models.Movie
	replaces int
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeCatalog) Replace(ctx context.Context, genres []models.Genre, movies []models.Movie) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	if f.err != nil {
		return f.err
	}
	f.genres = append([]models.Genre(nil), genres...)
	f.movies = append([]models.Movie(nil), movies...)
	return nil
}

func (f *fakeCatalog) Counts(ctx context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.genres)), int64(len(f.movies)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	genresCSV = "id,name\n18,Drama\n53,Thriller\n"
	moviesCSV = "tmdb_id,title,overview,release_date,runtime,poster_url,genre_ids\n" +
		"550,Fight Club,,1999-10-15,139,,[18]\n" +
		"680,Pulp Fiction,,not-a-date,,,[]\n" +
		"13,Forrest Gump,,,,,\n"
)

func seedFiles(t *testing.T) Files {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "tmdb_genres_clean.csv", genresCSV)
	writeFile(t, dir, "tmdb_movies_clean.csv", moviesCSV)
	return FilesIn(dir, "tmdb_genres_clean.csv", "tmdb_movies_clean.csv")
}

func TestLoadIsIdempotent(t *testing.T) {
	store := &fakeCatalog{}
	loader := New(discardLogger(), store, seedFiles(t))
	ctx := context.Background()

	first, err := loader.Load(ctx)
	require.NoError(t, err)
	firstMovies := store.movies

	second, err := loader.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, Summary{Genres: 2, Movies: 3}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, firstMovies, store.movies)
	assert.Equal(t, 2, store.replaces)
	assert.Equal(t, "Loaded 2 genres and 3 movies.", second.String())
}

func TestLoadMissingFile(t *testing.T) {
	files := seedFiles(t)
	testCases := []struct {
		name    string
		files   Files
		missing string
	}{
		{
			name:    "genres",
			files:   Files{Genres: filepath.Join(t.TempDir(), "nope.csv"), Movies: files.Movies},
			missing: "nope.csv",
		},
		{
			name:    "movies",
			files:   Files{Genres: files.Genres, Movies: filepath.Join(t.TempDir(), "gone.csv")},
			missing: "gone.csv",
		},
		{
			name:    "directory",
			files:   Files{Genres: filepath.Dir(files.Genres), Movies: files.Movies},
			missing: filepath.Dir(files.Genres),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeCatalog{}
			_, err := New(discardLogger(), store, tc.files).Load(context.Background())
			assert.ErrorIs(t, err, ErrInputNotFound)
			assert.Contains(t, err.Error(), tc.missing)
			assert.Zero(t, store.replaces, "nothing is written when an input is missing")
		})
	}
}

func TestLoadMalformedFileWritesNothing(t *testing.T) {
	testCases := []struct {
		name   string
		genres string
		movies string
		bad    string
	}{
		{
			name:   "movies",
			genres: genresCSV,
			movies: "tmdb_id,title,overview,release_date,runtime,poster_url,genre_ids\nabc,x,,,,,\n",
			bad:    "m.csv:2:",
		},
		{
			name:   "genres",
			genres: "id,name\n18,Drama\nnope,Thriller\n",
			movies: moviesCSV,
			bad:    "g.csv:3:",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "g.csv", tc.genres)
			writeFile(t, dir, "m.csv", tc.movies)
			store := &fakeCatalog{}

			_, err := New(discardLogger(), store, FilesIn(dir, "g.csv", "m.csv")).Load(context.Background())
			require.ErrorIs(t, err, ErrMalformedRecord)
			assert.Contains(t, err.Error(), tc.bad)
			assert.Zero(t, store.replaces)
		})
	}
}

func TestLoadStoreFailure(t *testing.T) {
	boom := errors.New("boom")
	store := &fakeCatalog{err: boom}
	_, err := New(discardLogger(), store, seedFiles(t)).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestConcurrentLoadsShareOneRun(t *testing.T) {
	store := &fakeCatalog{started: make(chan struct{}), release: make(chan struct{})}
	loader := New(discardLogger(), store, seedFiles(t))

	results := make(chan Summary, 2)
	load := func() {
		s, err := loader.Load(context.Background())
		assert.NoError(t, err)
		results <- s
	}
	go load()
	<-store.started
	go load()
	time.Sleep(50 * time.Millisecond)
	close(store.release)

	assert.Equal(t, <-results, <-results)
	assert.Equal(t, 1, store.replaces)
}
