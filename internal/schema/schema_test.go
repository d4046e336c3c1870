package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCineOpsValidates(t *testing.T) {
	require.NoError(t, CineOps().Validate())
}

func TestCineOpsTableOrder(t *testing.T) {
	s := CineOps()
	assert.Equal(t,
		[]string{"users", "genres", "movies", "user_favorites", "lists", "reviews", "list_items"},
		s.TableNames(),
	)
	assert.Equal(t, []string{"status", "visibility"}, s.EnumNames())
}

func TestUpgrade(t *testing.T) {
	stmts, err := CineOps().Upgrade()
	require.NoError(t, err)
	require.Len(t, stmts, 9)

	assert.Contains(t, stmts[0], "CREATE TYPE status AS ENUM ('active', 'deleted', 'suspended')")
	assert.Contains(t, stmts[0], "IF NOT EXISTS")
	assert.Contains(t, stmts[1], "CREATE TYPE visibility AS ENUM ('public', 'private')")

	assert.True(t, strings.HasPrefix(stmts[2], "CREATE TABLE users ("))
	assert.Contains(t, stmts[2], "status status NOT NULL DEFAULT 'active'::status")
	assert.Contains(t, stmts[2], "preferences_genres integer[] NOT NULL DEFAULT '{}'::integer[]")
	assert.Contains(t, stmts[2], "CONSTRAINT uq_users_email UNIQUE (email)")
	assert.Contains(t, stmts[2], "id serial PRIMARY KEY")

	assert.True(t, strings.HasPrefix(stmts[8], "CREATE TABLE list_items ("))
	assert.Contains(t, stmts[8], "CONSTRAINT uq_list_items_list_movie UNIQUE (list_id, movie_id)")
	assert.Contains(t, stmts[8], "CONSTRAINT fk_list_items_list_id FOREIGN KEY (list_id) REFERENCES lists (id) ON DELETE CASCADE")
	assert.Contains(t, stmts[8], "CONSTRAINT fk_list_items_movie_id FOREIGN KEY (movie_id) REFERENCES movies (id) ON DELETE CASCADE")
}

func TestDowngradeReversesUpgrade(t *testing.T) {
	stmts, err := CineOps().Downgrade()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"DROP TABLE list_items",
		"DROP TABLE reviews",
		"DROP TABLE lists",
		"DROP TABLE user_favorites",
		"DROP TABLE movies",
		"DROP TABLE genres",
		"DROP TABLE users",
		"DROP TYPE IF EXISTS visibility",
		"DROP TYPE IF EXISTS status",
	}, stmts)
}

func TestEveryForeignKeyCascades(t *testing.T) {
	for _, table := range CineOps().Tables {
		for _, fk := range table.ForeignKeys {
			assert.Equal(t, OnDeleteCascade, fk.OnDelete, fk.Name)
			assert.NotEmpty(t, fk.RefTable, fk.Name)
		}
	}
}

func TestValidate(t *testing.T) {
	parent := Table{Name: "parents", Columns: []Column{id()}}
	child := Table{
		Name:        "children",
		Columns:     []Column{id(), {Name: "parent_id", Type: "integer", NotNull: true}},
		ForeignKeys: []ForeignKey{{Name: "fk_children_parent_id", Column: "parent_id", RefTable: "parents", RefColumn: "id"}},
	}

	tests := []struct {
		name   string
		schema Schema
		err    error
	}{
		{name: "ordered", schema: Schema{Tables: []Table{parent, child}}},
		{name: "child first", schema: Schema{Tables: []Table{child, parent}}, err: ErrOutOfOrder},
		{name: "missing parent", schema: Schema{Tables: []Table{child}}, err: ErrUnknownTable},
		{name: "duplicate table", schema: Schema{Tables: []Table{parent, parent}}, err: ErrDuplicate},
		{
			name: "unique on missing column",
			schema: Schema{Tables: []Table{{
				Name:    "t",
				Columns: []Column{id()},
				Uniques: []Unique{{Name: "uq_t_x", Columns: []string{"x"}}},
			}}},
			err: ErrUnknownColumn,
		},
		{
			name:   "duplicate enum",
			schema: Schema{Enums: []Enum{{Name: "e", Values: []string{"a"}}, {Name: "e", Values: []string{"b"}}}},
			err:    ErrDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEnumLiteralQuoting(t *testing.T) {
	e := Enum{Name: "mood", Values: []string{"it's fine"}}
	assert.Contains(t, e.CreateSQL(), "('it''s fine')")
}
