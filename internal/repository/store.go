package repository

import (
	"context"

	"github.com/catalabs/catalog_api/internal/database"
)

// Store is the slice of a database session the repositories need. It is
// satisfied by *database.Session; tests substitute an in-memory fake.
type Store interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	InTransaction() bool

	Insert(ctx context.Context, table string, fields database.Fields, suffix string) (int64, error)
	Update(ctx context.Context, table string, pk, fields database.Fields) error
	Delete(ctx context.Context, table string, pk database.Fields) error
	CountAll(ctx context.Context, table string, cond database.Fields) (int64, error)

	Get(ctx context.Context, dest any, query string, args ...any) error
	Select(ctx context.Context, dest any, query string, args ...any) error
}
