// Package schema declares the cineops relational schema as data and renders it to
// Postgres DDL. Migrations materialize what is declared here; storage code refers to
// the table and constraint names exported by this package.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrOutOfOrder    = errors.New("table declared before its foreign key target")
	ErrDuplicate     = errors.New("duplicate definition")
)

const (
	OnDeleteCascade  = "CASCADE"
	OnDeleteRestrict = "RESTRICT"
)

// Enum is a Postgres enumerated type.
type Enum struct {
	Name   string
	Values []string
}

type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Default    string
}

type ForeignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

type Unique struct {
	Name    string
	Columns []string
}

type Table struct {
	Name        string
	Columns     []Column
	Uniques     []Unique
	ForeignKeys []ForeignKey
}

// Schema is an ordered set of enum types and tables. Tables must be listed so that
// every foreign key target precedes the tables referencing it.
type Schema struct {
	Enums  []Enum
	Tables []Table
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (s Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns table names in creation order.
func (s Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

func (s Schema) EnumNames() []string {
	names := make([]string, 0, len(s.Enums))
	for _, e := range s.Enums {
		names = append(names, e.Name)
	}
	return names
}

// Validate checks names are unique, constraint columns exist and tables are in
// dependency order.
func (s Schema) Validate() error {
	enums := make(map[string]bool, len(s.Enums))
	for _, e := range s.Enums {
		if enums[e.Name] {
			return fmt.Errorf("enum %s: %w", e.Name, ErrDuplicate)
		}
		if len(e.Values) == 0 {
			return fmt.Errorf("enum %s has no values", e.Name)
		}
		enums[e.Name] = true
	}
	declared := make(map[string]Table, len(s.Tables))
	for _, t := range s.Tables {
		if _, ok := declared[t.Name]; ok {
			return fmt.Errorf("table %s: %w", t.Name, ErrDuplicate)
		}
		for _, u := range t.Uniques {
			for _, col := range u.Columns {
				if !t.hasColumn(col) {
					return fmt.Errorf("%s.%s in %s: %w", t.Name, col, u.Name, ErrUnknownColumn)
				}
			}
		}
		for _, fk := range t.ForeignKeys {
			if !t.hasColumn(fk.Column) {
				return fmt.Errorf("%s.%s in %s: %w", t.Name, fk.Column, fk.Name, ErrUnknownColumn)
			}
			ref, ok := declared[fk.RefTable]
			if !ok {
				if _, later := s.Table(fk.RefTable); later {
					return fmt.Errorf("%s -> %s: %w", t.Name, fk.RefTable, ErrOutOfOrder)
				}
				return fmt.Errorf("%s -> %s: %w", t.Name, fk.RefTable, ErrUnknownTable)
			}
			if !ref.hasColumn(fk.RefColumn) {
				return fmt.Errorf("%s.%s referenced by %s: %w", fk.RefTable, fk.RefColumn, fk.Name, ErrUnknownColumn)
			}
		}
		declared[t.Name] = t
	}
	return nil
}

// Upgrade returns the statements creating enum types (guarded) and then tables in
// declaration order.
func (s Schema) Upgrade() ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(s.Enums)+len(s.Tables))
	for _, e := range s.Enums {
		stmts = append(stmts, e.CreateSQL())
	}
	for _, t := range s.Tables {
		stmts = append(stmts, t.CreateSQL())
	}
	return stmts, nil
}

// Downgrade is the exact inverse of Upgrade: tables dependents first, then enum types.
func (s Schema) Downgrade() ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(s.Enums)+len(s.Tables))
	for i := len(s.Tables) - 1; i >= 0; i-- {
		stmts = append(stmts, s.Tables[i].DropSQL())
	}
	for i := len(s.Enums) - 1; i >= 0; i-- {
		stmts = append(stmts, s.Enums[i].DropSQL())
	}
	return stmts, nil
}

// CreateSQL creates the type only when no type with that name exists in the current schema.
func (e Enum) CreateSQL() string {
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = quoteLiteral(v)
	}
	return fmt.Sprintf(`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_type t
        JOIN pg_namespace n ON n.oid = t.typnamespace
        WHERE t.typname = %s AND n.nspname = current_schema()
    ) THEN
        CREATE TYPE %s AS ENUM (%s);
    END IF;
END
$$`, quoteLiteral(e.Name), e.Name, strings.Join(quoted, ", "))
}

func (e Enum) DropSQL() string {
	return "DROP TYPE IF EXISTS " + e.Name
}

func (t Table) CreateSQL() string {
	lines := make([]string, 0, len(t.Columns)+len(t.Uniques)+len(t.ForeignKeys))
	for _, c := range t.Columns {
		lines = append(lines, c.definition())
	}
	for _, u := range t.Uniques {
		lines = append(lines, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", u.Name, strings.Join(u.Columns, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)", fk.Name, fk.Column, fk.RefTable, fk.RefColumn)
		if fk.OnDelete != "" {
			line += " ON DELETE " + fk.OnDelete
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", t.Name, strings.Join(lines, ",\n    "))
}

func (t Table) DropSQL() string {
	return "DROP TABLE " + t.Name
}

func (c Column) definition() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	return b.String()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
