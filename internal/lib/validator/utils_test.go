package validator

import (
	"errors"
	"strings"
	"testing"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	v := New()

	t.Run("valid user", func(t *testing.T) {
		u := &models.User{FirebaseID: "fb", Email: "a@b.c", DisplayName: "a", Username: "a"}
		assert.NoError(t, ValidateStruct(v, u))
	})

	t.Run("field errors use json names", func(t *testing.T) {
		u := &models.User{
			Email:       strings.Repeat("x", 256),
			DisplayName: "a",
			Username:    "a",
			Status:      fields.UserStatus("banned"),
		}
		err := ValidateStruct(v, u)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, map[string]string{
			"firebase_id": "This field is required",
			"email":       "The maximum length is 255",
			"status":      "Value should be one of active deleted suspended",
		}, vErr.Errors)
		assert.Equal(t,
			"validation failed: email: The maximum length is 255; firebase_id: This field is required; status: Value should be one of active deleted suspended",
			err.Error(),
		)
	})

	t.Run("list visibility", func(t *testing.T) {
		err := ValidateStruct(v, models.List{UserID: 1, Name: "x", Visibility: "friends"})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Errors, "visibility")
	})

	t.Run("negative rating", func(t *testing.T) {
		err := ValidateStruct(v, &models.Review{UserID: 1, MovieID: 1, Rating: -1})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Value should be greater than or equal to 0", vErr.Errors["rating"])
	})
}

func TestCamelToSnake(t *testing.T) {
	testCases := map[string]string{
		"Title":      "title",
		"TmdbID":     "tmdb_id",
		"PosterURL":  "poster_url",
		"CreatedAt":  "created_at",
		"ID":         "id",
		"ReleaseDay": "release_day",
	}
	for in, want := range testCases {
		assert.Equal(t, want, camelToSnake(in), in)
	}
}
