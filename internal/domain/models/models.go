package models

import (
	"cineops/proj/internal/domain/fields"
	"time"
)

// Timestamps is embedded by every entity that tracks both creation and modification time.
// Both values are assigned by the database.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" validate:"-"`
}

type User struct {
	ID                int64             `json:"id" db:"id"`
	FirebaseID        string            `json:"firebase_id" db:"firebase_id" validate:"required"`
	Email             string            `json:"email" db:"email" validate:"required,max=255"`
	DisplayName       string            `json:"display_name" db:"display_name" validate:"required,max=120"`
	Username          string            `json:"username" db:"username" validate:"required,max=50"`
	AvatarURL         *string           `json:"avatar_url,omitempty" db:"avatar_url" validate:"omitempty,max=512"`
	Bio               *string           `json:"bio,omitempty" db:"bio"`
	PreferencesGenres []int32           `json:"preferences_genres" db:"preferences_genres"` // advisory genre ids, not a foreign key
	Status            fields.UserStatus `json:"status" db:"status" validate:"omitempty,oneof=active deleted suspended"`
	Timestamps
}

type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,max=100"`
}

type Movie struct {
	ID          int64                `json:"id" db:"id"`
	TmdbID      int64                `json:"tmdb_id" db:"tmdb_id" validate:"required"`
	Title       string               `json:"title" db:"title" validate:"required,max=255"`
	Overview    *string              `json:"overview,omitempty" db:"overview"`
	ReleaseDate *time.Time           `json:"release_date,omitempty" db:"release_date"`
	Runtime     *fields.MovieRuntime `json:"runtime,omitempty" db:"runtime"`
	PosterURL   *string              `json:"poster_url,omitempty" db:"poster_url"`
	GenreIDs    []int32              `json:"genre_ids,omitempty" db:"genre_ids"` // advisory genre ids, not a foreign key
	Timestamps
}

type UserFavorite struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id" validate:"required"`
	MovieID   int64     `json:"movie_id" db:"movie_id" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Review struct {
	ID      int64   `json:"id" db:"id"`
	UserID  int64   `json:"user_id" db:"user_id" validate:"required"`
	MovieID int64   `json:"movie_id" db:"movie_id" validate:"required"`
	Rating  float64 `json:"rating" db:"rating" validate:"gte=0"`
	Body    *string `json:"body,omitempty" db:"body"`
	Timestamps
}

type List struct {
	ID          int64                 `json:"id" db:"id"`
	UserID      int64                 `json:"user_id" db:"user_id" validate:"required"`
	Name        string                `json:"name" db:"name" validate:"required,max=100"`
	Description *string               `json:"description,omitempty" db:"description"`
	Visibility  fields.ListVisibility `json:"visibility" db:"visibility" validate:"omitempty,oneof=public private"`
	Timestamps
}

// ListItem places a movie in a list. Position is 0-based and kept contiguous by the lists service.
type ListItem struct {
	ID        int64     `json:"id" db:"id"`
	ListID    int64     `json:"list_id" db:"list_id" validate:"required"`
	MovieID   int64     `json:"movie_id" db:"movie_id" validate:"required"`
	Position  int32     `json:"position" db:"position" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
