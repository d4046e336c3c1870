package models

import (
	"cineops/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

// Models exposes one typed accessor per entity. Every accessor resolves its Querier from
// the context, so calls made inside postgres.Storage.RunInTransaction share that
// transaction. Relationship navigation (a user's reviews, a list's items) is always a
// query on the foreign key column; nothing is cached.
type Models struct {
	User       *UserModel
	Genre      *GenreModel
	Movie      *MovieModel
	Favorite   *FavoriteModel
	Review     *ReviewModel
	List       *ListModel
	ListItem   *ListItemModel
	Catalog    *CatalogModel
	Transactor *postgres.Storage
}

func New(db *postgres.Storage) *Models {
	return &Models{
		User:       &UserModel{db},
		Genre:      &GenreModel{db},
		Movie:      &MovieModel{db},
		Favorite:   &FavoriteModel{db},
		Review:     &ReviewModel{db},
		List:       &ListModel{db},
		ListItem:   &ListItemModel{db},
		Catalog:    &CatalogModel{db},
		Transactor: db,
	}
}

func collectOne[T any](rows pgx.Rows, err error) (*T, error) {
	if err != nil {
		return nil, postgres.MapError(err)
	}
	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &v, nil
}

func collectAll[T any](rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, postgres.MapError(err)
	}
	vs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return vs, nil
}
