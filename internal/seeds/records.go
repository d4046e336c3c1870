package seeds

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
)

const releaseDateLayout = "2006-01-02"

var (
	genreHeader = []string{"id", "name"}
	movieHeader = []string{"tmdb_id", "title", "overview", "release_date", "runtime", "poster_url", "genre_ids"}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV calls fn for every data row of the file, keyed by header name. The header must
// contain every column in required; extra columns are ignored. Stray quotes are kept
// literally and columns missing from a short row read as empty.
func readCSV(path string, required []string, fn func(row map[string]string) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w: missing header row", path, ErrMalformedRecord)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%s: %w: missing column %q", path, ErrMalformedRecord, name)
		}
	}

	row := make(map[string]string, len(required))
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, name := range required {
			row[name] = ""
			if i := index[name]; i < len(record) {
				row[name] = record[i]
			}
		}
		if err := fn(row); err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

// ReadGenres parses the genre file. Rows keep the id they were exported with.
func ReadGenres(path string) ([]models.Genre, error) {
	var genres []models.Genre
	err := readCSV(path, genreHeader, func(row map[string]string) error {
		id, err := strconv.ParseInt(strings.TrimSpace(row["id"]), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: id %q", ErrMalformedRecord, row["id"])
		}
		genres = append(genres, models.Genre{ID: id, Name: row["name"]})
		return nil
	})
	return genres, err
}

// ReadMovies parses the movie file in file order. release_date and runtime fall back to
// null when they do not parse; empty overview and poster_url are stored as null.
func ReadMovies(path string) ([]models.Movie, error) {
	var movies []models.Movie
	err := readCSV(path, movieHeader, func(row map[string]string) error {
		tmdbID, err := strconv.ParseInt(strings.TrimSpace(row["tmdb_id"]), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: tmdb_id %q", ErrMalformedRecord, row["tmdb_id"])
		}
		genreIDs, err := parseGenreIDs(row["genre_ids"])
		if err != nil {
			return fmt.Errorf("%w: genre_ids %q", ErrMalformedRecord, row["genre_ids"])
		}
		movies = append(movies, models.Movie{
			TmdbID:      tmdbID,
			Title:       row["title"],
			Overview:    optional(row["overview"]),
			ReleaseDate: parseDate(row["release_date"]),
			Runtime:     parseRuntime(row["runtime"]),
			PosterURL:   optional(row["poster_url"]),
			GenreIDs:    genreIDs,
		})
		return nil
	})
	return movies, err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseRuntime(s string) *fields.MovieRuntime {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	rt := fields.MovieRuntime(f)
	return &rt
}

// parseGenreIDs decodes a JSON integer array such as "[18, 53]". Empty input is an empty
// list; a JSON null stays nil and is stored as NULL.
func parseGenreIDs(s string) ([]int32, error) {
	ids := []int32{}
	if strings.TrimSpace(s) == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
