package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrKeyNotFound is returned by Update and Delete when the primary-key probe
// finds no matching row. Callers map it to HTTP 404 as opposed to the
// generic 400 used for other failures.
var ErrKeyNotFound = errors.New("record does not exist")

// Fields maps column names to values. It is used for insert values,
// update sets, primary keys, and count conditions alike.
type Fields map[string]any

// Session is a per-request database handle bound to one connection pool,
// carrying at most one open transaction. Reads outside a transaction go
// straight to the pool (auto-commit); once Begin has been called, every
// statement runs on the transaction until Commit or Rollback.
//
// A Session is not safe for concurrent use; each request gets its own.
type Session struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// NewSession creates a Session over the shared pool.
func NewSession(db *sqlx.DB) *Session {
	return &Session{db: db}
}

// Begin opens a transaction at read-committed isolation.
// Nested transactions are not supported.
func (s *Session) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("transaction already open")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// InTransaction reports whether a transaction is currently open.
func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// Commit commits the open transaction. With no transaction open it is a
// no-op, so callers can run the commit/rollback gate unconditionally.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the open transaction. No-op without one.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// ext returns the active statement runner: the transaction when open,
// otherwise the pool.
func (s *Session) ext() sqlx.ExtContext {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Insert builds and executes a single-row insert from a field map. A
// non-empty suffix (e.g. "RETURNING id") is appended to the statement and
// its single scanned value is returned as the generated key.
func (s *Session) Insert(ctx context.Context, table string, fields Fields, suffix string) (int64, error) {
	query, args := buildInsert(table, fields, suffix)
	if suffix == "" {
		if _, err := s.ext().ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		return 0, nil
	}
	var id int64
	if err := s.ext().QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// Update counts rows matching pk first; zero matches yields ErrKeyNotFound
// and no update is issued. Otherwise the field map is applied to every
// matching row.
func (s *Session) Update(ctx context.Context, table string, pk, fields Fields) error {
	n, err := s.CountAll(ctx, table, pk)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update %s: %w", table, ErrKeyNotFound)
	}
	query, args := buildUpdate(table, pk, fields)
	if _, err := s.ext().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete removes rows matching pk, with the same not-found probe as Update.
func (s *Session) Delete(ctx context.Context, table string, pk Fields) error {
	n, err := s.CountAll(ctx, table, pk)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete from %s: %w", table, ErrKeyNotFound)
	}
	query, args := buildDelete(table, pk)
	if _, err := s.ext().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// CountAll returns the number of rows matching the condition map.
func (s *Session) CountAll(ctx context.Context, table string, cond Fields) (int64, error) {
	query, args := buildCount(table, cond)
	var n int64
	if err := sqlx.GetContext(ctx, s.ext(), &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Get scans a single row into dest using sqlx struct scanning.
func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.ext(), dest, query, args...)
}

// Select scans all rows into dest using sqlx struct scanning.
func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.ext(), dest, query, args...)
}

// sortedKeys returns the column names of a field map in deterministic order.
func sortedKeys(f Fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildInsert renders "INSERT INTO t (a, b) VALUES ($1, $2) [suffix]".
func buildInsert(table string, fields Fields, suffix string) (string, []any) {
	cols := sortedKeys(fields)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if suffix != "" {
		query += " " + suffix
	}
	return query, args
}

// buildWhere renders "a = $n AND b = $n+1" starting at the given
// placeholder offset.
func buildWhere(cond Fields, offset int) (string, []any) {
	cols := sortedKeys(cond)
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s = $%d", c, offset+i)
		args[i] = cond[c]
	}
	return strings.Join(parts, " AND "), args
}

// buildUpdate renders "UPDATE t SET a = $1 WHERE id = $2".
func buildUpdate(table string, pk, fields Fields) (string, []any) {
	cols := sortedKeys(fields)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(fields)+len(pk))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, fields[c])
	}
	where, whereArgs := buildWhere(pk, len(cols)+1)
	args = append(args, whereArgs...)
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where), args
}

// buildDelete renders "DELETE FROM t WHERE id = $1".
func buildDelete(table string, pk Fields) (string, []any) {
	where, args := buildWhere(pk, 1)
	return fmt.Sprintf("DELETE FROM %s WHERE %s", table, where), args
}

// buildCount renders "SELECT COUNT(*) FROM t WHERE a = $1".
func buildCount(table string, cond Fields) (string, []any) {
	where, args := buildWhere(cond, 1)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args
}
