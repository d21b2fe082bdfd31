// Package database holds the pgx plumbing shared by the Postgres repositories.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// NewPool opens a pgx pool and verifies it can reach the server.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// CollectOne runs a query expected to return a single row and scans it into T
// by column name. It returns pgx.ErrNoRows when nothing matched.
func CollectOne[T any](ctx context.Context, db DBTX, sql string, args ...interface{}) (T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

// CollectAll runs a query and scans every row into T by column name.
func CollectAll[T any](ctx context.Context, db DBTX, sql string, args ...interface{}) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// FindPage runs a compiled filter query against table and returns one page.
// columns must match the db tags of T.
func FindPage[T any](ctx context.Context, db DBTX, table, columns string, q filter.Query) (filter.Page[T], error) {
	where, args := WhereClause(q.Conditions)

	var total int64
	countSQL := fmt.Sprintf("SELECT count(*) FROM %s%s", table, where)
	if err := db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return filter.Page[T]{}, fmt.Errorf("failed to count %s: %w", table, err)
	}

	direction := "ASC"
	if q.Direction == filter.Desc {
		direction = "DESC"
	}
	orderBy := fmt.Sprintf(" ORDER BY %s %s", q.SortColumn, direction)
	if q.SortColumn != "id" {
		orderBy += ", id ASC"
	}

	pageSQL := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT $%d OFFSET $%d",
		columns, table, where, orderBy, len(args)+1, len(args)+2)
	pageArgs := append(append([]interface{}{}, args...), q.Limit, q.Offset)

	items, err := CollectAll[T](ctx, db, pageSQL, pageArgs...)
	if err != nil {
		return filter.Page[T]{}, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return filter.NewPage(items, total, q), nil
}

// WhereClause renders conditions as a parameterised WHERE clause starting at $1.
// Column names come from static schemas, never from the request.
func WhereClause(conds []filter.Condition) (string, []interface{}) {
	if len(conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(conds))
	args := make([]interface{}, 0, len(conds))
	for _, c := range conds {
		args = append(args, conditionArg(c))
		n := len(args)
		switch c.Op {
		case filter.OpContains:
			parts = append(parts, fmt.Sprintf(`%s ILIKE $%d`, c.Column, n))
		case filter.OpGte:
			parts = append(parts, fmt.Sprintf("%s >= $%d", c.Column, n))
		case filter.OpLte:
			parts = append(parts, fmt.Sprintf("%s <= $%d", c.Column, n))
		default:
			parts = append(parts, fmt.Sprintf("%s = $%d", c.Column, n))
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func conditionArg(c filter.Condition) interface{} {
	if c.Op == filter.OpContains {
		s, _ := c.Value.(string)
		return "%" + likeEscaper.Replace(s) + "%"
	}
	return c.Value
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Translate maps constraint violations to structured errors. Other errors are
// returned unchanged.
func Translate(err error, resource string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return idmerrors.Wrapf(err, idmerrors.ErrCodeAlreadyExists,
			"%s already exists", resource).WithDetail("constraint", pgErr.ConstraintName)
	case foreignKeyViolation:
		return idmerrors.Wrapf(err, idmerrors.ErrCodeConflict,
			"%s references a missing or still referenced record", resource).WithDetail("constraint", pgErr.ConstraintName)
	}
	return err
}
