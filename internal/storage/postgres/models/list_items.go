package models

import (
	"context"
	"fmt"

	"cineops/proj/internal/domain/models"
	"cineops/proj/internal/storage"
	"cineops/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

const listItemColumns = "id, list_id, movie_id, position, created_at"

type ListItemModel struct {
	DB *postgres.Storage
}

func (m *ListItemModel) Insert(ctx context.Context, listID, movieID int64, position int32) (*models.ListItem, error) {
	rows, err := m.DB.Querier(ctx).Query(
		ctx,
		"INSERT INTO list_items (list_id, movie_id, position) VALUES ($1, $2, $3) RETURNING "+listItemColumns,
		listID,
		movieID,
		position,
	)
	return collectOne[models.ListItem](rows, err)
}

func (m *ListItemModel) Delete(ctx context.Context, listID, movieID int64) error {
	tag, err := m.DB.Querier(ctx).Exec(ctx, "DELETE FROM list_items WHERE list_id = $1 AND movie_id = $2", listID, movieID)
	if err != nil {
		return postgres.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ForList returns the items of a list in display order.
func (m *ListItemModel) ForList(ctx context.Context, listID int64) ([]models.ListItem, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+listItemColumns+" FROM list_items WHERE list_id = $1 ORDER BY position, id", listID)
	return collectAll[models.ListItem](rows, err)
}

func (m *ListItemModel) ForMovie(ctx context.Context, movieID int64) ([]models.ListItem, error) {
	rows, err := m.DB.Querier(ctx).Query(ctx, "SELECT "+listItemColumns+" FROM list_items WHERE movie_id = $1 ORDER BY list_id, position", movieID)
	return collectAll[models.ListItem](rows, err)
}

// SetPositions writes the Position of every item, matched by ID, in one round trip.
// Run it inside a transaction so a partial failure leaves the old order intact.
func (m *ListItemModel) SetPositions(ctx context.Context, items []models.ListItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue("UPDATE list_items SET position = $1 WHERE id = $2", item.Position, item.ID)
	}
	br := m.DB.Querier(ctx).SendBatch(ctx, batch)
	for _, item := range items {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return postgres.MapError(err)
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return fmt.Errorf("list item %d: %w", item.ID, storage.ErrNotFound)
		}
	}
	return postgres.MapError(br.Close())
}
