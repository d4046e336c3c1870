package models

import (
	"context"

	"cineops/proj/internal/domain/fields"
	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"
)

const listColumns = "id, user_id, name, description, visibility::text AS visibility, created_at, updated_at"

type ListModel struct {
	DB *postgres.Storage
}

func (m *ListModel) Insert(ctx context.Context, l *models.List) (*models.List, error) {
	if l.Visibility == "" {
		l.Visibility = fields.ListVisibilityPrivate
	}
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"INSERT INTO lists (user_id, name, description, visibility) VALUES ($1, $2, $3, $4) RETURNING "+listColumns,
		l.UserID,
		l.Name,
		l.Description,
		string(l.Visibility),
	)
	return collectOne[models.List](rows, err)
}

func (m *ListModel) Get(ctx context.Context, id int64) (*models.List, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+listColumns+" FROM lists WHERE id = $1", id)
	return collectOne[models.List](rows, err)
}

// GetForUpdate reads the list and locks its row until the enclosing transaction ends.
// Item mutations take this lock so concurrent position changes on one list serialize.
func (m *ListModel) GetForUpdate(ctx context.Context, id int64) (*models.List, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+listColumns+" FROM lists WHERE id = $1 FOR UPDATE", id)
	return collectOne[models.List](rows, err)
}

func (m *ListModel) Update(ctx context.Context, l *models.List) (*models.List, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		`UPDATE lists SET name = $1, description = $2, visibility = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+listColumns,
		l.Name,
		l.Description,
		string(l.Visibility),
		l.ID,
	)
	return collectOne[models.List](rows, err)
}

// Delete removes the list and all of its items.
func (m *ListModel) Delete(ctx context.Context, id int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM lists WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ListModel) ForUser(ctx context.Context, userID int64) ([]models.List, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+listColumns+" FROM lists WHERE user_id = $1 ORDER BY id", userID)
	return collectAll[models.List](rows, err)
}
