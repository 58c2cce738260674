package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

type scanner interface {
	Scan(dest ...any) error
}

// tableSpec maps one record type onto one table. columns[0] is the primary key
// and values must return arguments in column order.
type tableSpec[T domain.Record] struct {
	kind           string
	table          string
	columns        []string
	facilityColumn string
	ownerColumn    string
	orderBy        string
	scan           func(row scanner) (T, error)
	values         func(rec T) []any
}

// Table is a ports.Repository over a single PostgreSQL table. Scope filters
// are pushed down as WHERE clauses.
type Table[T domain.Record] struct {
	db   *sql.DB
	def tableSpec[T]
}

func newTable[T domain.Record](db *sql.DB, def tableSpec[T]) *Table[T] {
	return &Table[T]{db: db, def: def}
}

func (t *Table[T]) selectList() string {
	return strings.Join(t.def.columns, ", ")
}

func (t *Table[T]) List(ctx context.Context, filter ports.ListFilter) ([]T, error) {
	var (
		where []string
		args  []any
	)
	if filter.Scoped() {
		if t.def.facilityColumn == "" {
			return []T{}, nil
		}
		args = append(args, pq.Array(filter.FacilityIDs))
		where = append(where, fmt.Sprintf("%s = ANY($%d)", t.def.facilityColumn, len(args)))
	}
	if filter.OwnerID != "" {
		if t.def.ownerColumn == "" {
			return []T{}, nil
		}
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("%s = $%d", t.def.ownerColumn, len(args)))
	}

	query := "SELECT " + t.selectList() + " FROM " + t.def.table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if t.def.orderBy != "" {
		query += " ORDER BY " + t.def.orderBy
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, t.def.kind)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		rec, err := t.def.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t *Table[T]) Get(ctx context.Context, id string) (T, error) {
	query := "SELECT " + t.selectList() + " FROM " + t.def.table + " WHERE id = $1"
	rec, err := t.def.scan(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		var zero T
		return zero, t.notFound(err, id)
	}
	return rec, nil
}

func (t *Table[T]) Create(ctx context.Context, rec T) (T, error) {
	placeholders := make([]string, len(t.def.columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.def.table, t.selectList(), strings.Join(placeholders, ", "), t.selectList())

	created, err := t.def.scan(t.db.QueryRowContext(ctx, query, t.def.values(rec)...))
	if err != nil {
		var zero T
		return zero, mapError(err, t.def.kind)
	}
	return created, nil
}

func (t *Table[T]) Update(ctx context.Context, rec T) (T, error) {
	sets := make([]string, 0, len(t.def.columns)-1)
	for i, col := range t.def.columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		t.def.table, strings.Join(sets, ", "), t.selectList())

	updated, err := t.def.scan(t.db.QueryRowContext(ctx, query, t.def.values(rec)...))
	if err != nil {
		var zero T
		return zero, t.notFound(err, rec.GetID())
	}
	return updated, nil
}

func (t *Table[T]) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.def.table+" WHERE id = $1", id)
	if err != nil {
		return mapError(err, t.def.kind)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", t.def.kind, id, domain.ErrNotFound)
	}
	return nil
}

func (t *Table[T]) notFound(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", t.def.kind, id, domain.ErrNotFound)
	}
	return mapError(err, t.def.kind)
}

// mapError turns constraint violations into domain errors.
func mapError(err error, kind string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%s: %w", kind, domain.ErrConflict)
	case "23503":
		return domain.NewValidationError(referenceField(pqErr), "references a record that does not exist")
	case "23502", "23514":
		return domain.NewValidationError(pqErr.Column, "is invalid")
	}
	return err
}

func referenceField(pqErr *pq.Error) string {
	if pqErr.Column != "" {
		return pqErr.Column
	}
	// Constraint names follow <table>_<column>_fkey.
	name := strings.TrimSuffix(pqErr.Constraint, "_fkey")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return "reference"
}
