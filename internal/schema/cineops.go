package schema

import "cineops/proj/internal/domain/fields"

const (
	EnumStatus     = "status"
	EnumVisibility = "visibility"

	TableUsers         = "users"
	TableGenres        = "genres"
	TableMovies        = "movies"
	TableUserFavorites = "user_favorites"
	TableLists         = "lists"
	TableReviews       = "reviews"
	TableListItems     = "list_items"
)

// Constraint names surfaced in storage errors.
const (
	UniqueUsersFirebaseID   = "uq_users_firebase_id"
	UniqueUsersEmail        = "uq_users_email"
	UniqueUsersUsername     = "uq_users_username"
	UniqueGenresName        = "uq_genres_name"
	UniqueMoviesTmdbID      = "uq_movies_tmdb_id"
	UniqueFavoriteUserMovie = "uq_user_favorites_user_movie"
	UniqueReviewUserMovie   = "uq_reviews_user_movie"
	UniqueListItemListMovie = "uq_list_items_list_movie"
)

// CatalogTables are emptied by a catalog reseed, in truncation order.
var CatalogTables = []string{
	TableUserFavorites,
	TableListItems,
	TableReviews,
	TableLists,
	TableMovies,
	TableGenres,
}

func createdAt() Column {
	return Column{Name: "created_at", Type: "timestamp", NotNull: true, Default: "now()"}
}

func updatedAt() Column {
	return Column{Name: "updated_at", Type: "timestamp", NotNull: true, Default: "now()"}
}

func id() Column {
	return Column{Name: "id", Type: "serial", PrimaryKey: true}
}

// ForeignKeyName is the constraint name of the foreign key on table.column.
func ForeignKeyName(table, column string) string {
	return "fk_" + table + "_" + column
}

func cascadeTo(table, column string) ForeignKey {
	return ForeignKey{
		Name:      ForeignKeyName(table, column),
		Column:    column,
		RefTable:  refTable(column),
		RefColumn: "id",
		OnDelete:  OnDeleteCascade,
	}
}

func refTable(column string) string {
	switch column {
	case "user_id":
		return TableUsers
	case "movie_id":
		return TableMovies
	case "list_id":
		return TableLists
	}
	return ""
}

// CineOps is the full application schema in dependency order.
func CineOps() Schema {
	return Schema{
		Enums: []Enum{
			{Name: EnumStatus, Values: fields.Strings(fields.UserStatuses)},
			{Name: EnumVisibility, Values: fields.Strings(fields.ListVisibilities)},
		},
		Tables: []Table{
			{
				Name: TableUsers,
				Columns: []Column{
					id(),
					{Name: "firebase_id", Type: "varchar", NotNull: true},
					{Name: "email", Type: "varchar(255)", NotNull: true},
					{Name: "display_name", Type: "varchar(120)", NotNull: true},
					{Name: "username", Type: "varchar(50)", NotNull: true},
					{Name: "avatar_url", Type: "varchar(512)"},
					{Name: "bio", Type: "text"},
					{Name: "preferences_genres", Type: "integer[]", NotNull: true, Default: "'{}'::integer[]"},
					{Name: "status", Type: EnumStatus, NotNull: true, Default: "'active'::status"},
					createdAt(),
					updatedAt(),
				},
				Uniques: []Unique{
					{Name: UniqueUsersFirebaseID, Columns: []string{"firebase_id"}},
					{Name: UniqueUsersEmail, Columns: []string{"email"}},
					{Name: UniqueUsersUsername, Columns: []string{"username"}},
				},
			},
			{
				Name: TableGenres,
				Columns: []Column{
					id(),
					{Name: "name", Type: "varchar(100)", NotNull: true},
				},
				Uniques: []Unique{{Name: UniqueGenresName, Columns: []string{"name"}}},
			},
			{
				Name: TableMovies,
				Columns: []Column{
					id(),
					{Name: "tmdb_id", Type: "integer", NotNull: true},
					{Name: "title", Type: "varchar(255)", NotNull: true},
					{Name: "overview", Type: "text"},
					{Name: "release_date", Type: "date"},
					{Name: "runtime", Type: "double precision"},
					{Name: "poster_url", Type: "varchar"},
					{Name: "genre_ids", Type: "integer[]"},
					createdAt(),
					updatedAt(),
				},
				Uniques: []Unique{{Name: UniqueMoviesTmdbID, Columns: []string{"tmdb_id"}}},
			},
			{
				Name: TableUserFavorites,
				Columns: []Column{
					id(),
					{Name: "user_id", Type: "integer", NotNull: true},
					{Name: "movie_id", Type: "integer", NotNull: true},
					createdAt(),
				},
				Uniques: []Unique{{Name: UniqueFavoriteUserMovie, Columns: []string{"user_id", "movie_id"}}},
				ForeignKeys: []ForeignKey{
					cascadeTo(TableUserFavorites, "user_id"),
					cascadeTo(TableUserFavorites, "movie_id"),
				},
			},
			{
				Name: TableLists,
				Columns: []Column{
					id(),
					{Name: "user_id", Type: "integer", NotNull: true},
					{Name: "name", Type: "varchar(100)", NotNull: true},
					{Name: "description", Type: "text"},
					{Name: "visibility", Type: EnumVisibility, NotNull: true, Default: "'private'::visibility"},
					createdAt(),
					updatedAt(),
				},
				ForeignKeys: []ForeignKey{cascadeTo(TableLists, "user_id")},
			},
			{
				Name: TableReviews,
				Columns: []Column{
					id(),
					{Name: "user_id", Type: "integer", NotNull: true},
					{Name: "movie_id", Type: "integer", NotNull: true},
					{Name: "rating", Type: "double precision", NotNull: true},
					{Name: "body", Type: "text"},
					createdAt(),
					updatedAt(),
				},
				Uniques: []Unique{{Name: UniqueReviewUserMovie, Columns: []string{"user_id", "movie_id"}}},
				ForeignKeys: []ForeignKey{
					cascadeTo(TableReviews, "user_id"),
					cascadeTo(TableReviews, "movie_id"),
				},
			},
			{
				Name: TableListItems,
				Columns: []Column{
					id(),
					{Name: "list_id", Type: "integer", NotNull: true},
					{Name: "movie_id", Type: "integer", NotNull: true},
					{Name: "position", Type: "integer", NotNull: true},
					createdAt(),
				},
				Uniques: []Unique{{Name: UniqueListItemListMovie, Columns: []string{"list_id", "movie_id"}}},
				ForeignKeys: []ForeignKey{
					cascadeTo(TableListItems, "list_id"),
					cascadeTo(TableListItems, "movie_id"),
				},
			},
		},
	}
}
