package models

import (
	"context"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"
)

const userColumns = `id, firebase_id, email, display_name, username, avatar_url, bio,
	preferences_genres, status::text AS status, created_at, updated_at`

type UserModel struct {
	DB *postgres.Storage
}

// applyUserDefaults fills the values the schema would default. A nil preferences slice
// would otherwise be sent as NULL.
func applyUserDefaults(u *models.User) {
	if u.Status == "" {
		u.Status = fields.UserStatusActive
	}
	if u.PreferencesGenres == nil {
		u.PreferencesGenres = []int32{}
	}
}

func (m *UserModel) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	applyUserDefaults(u)
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		`INSERT INTO users (firebase_id, email, display_name, username, avatar_url, bio, preferences_genres, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.FirebaseID,
		u.Email,
		u.DisplayName,
		u.Username,
		u.AvatarURL,
		u.Bio,
		u.PreferencesGenres,
		string(u.Status),
	)
	return collectOne[models.User](rows, err)
}

func (m *UserModel) Get(ctx context.Context, id int64) (*models.User, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return collectOne[models.User](rows, err)
}

func (m *UserModel) GetByFirebaseID(ctx context.Context, firebaseID string) (*models.User, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+userColumns+" FROM users WHERE firebase_id = $1", firebaseID)
	return collectOne[models.User](rows, err)
}

// Update writes every mutable column and refreshes updated_at.
func (m *UserModel) Update(ctx context.Context, u *models.User) (*models.User, error) {
	applyUserDefaults(u)
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		`UPDATE users SET email = $1, display_name = $2, username = $3, avatar_url = $4, bio = $5,
		preferences_genres = $6, status = $7, updated_at = now()
		WHERE id = $8
		RETURNING `+userColumns,
		u.Email,
		u.DisplayName,
		u.Username,
		u.AvatarURL,
		u.Bio,
		u.PreferencesGenres,
		string(u.Status),
		u.ID,
	)
	return collectOne[models.User](rows, err)
}

func (m *UserModel) SetStatus(ctx context.Context, id int64, status fields.UserStatus) (*models.User, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"UPDATE users SET status = $1, updated_at = now() WHERE id = $2 RETURNING "+userColumns,
		string(status),
		id,
	)
	return collectOne[models.User](rows, err)
}

// Delete removes the user together with its favorites, reviews, lists and their items.
func (m *UserModel) Delete(ctx context.Context, id int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
