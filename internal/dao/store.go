package dao

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pls-team/pls-backend/internal/database"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = errors.New("not found")

// Store is the subset of the relational access layer the DAOs use.
// *database.Client satisfies it.
type Store interface {
	Builder() sq.StatementBuilderType
	SelectAll(ctx context.Context, table string) ([]database.Row, error)
	SelectByCondition(ctx context.Context, table string, conditions database.Record) ([]database.Row, error)
	SelectCustom(ctx context.Context, query string, params ...any) ([]database.Row, error)
	InsertRecord(ctx context.Context, table string, record database.Record) error
	UpdateRecords(ctx context.Context, table string, updates, conditions database.Record) (int64, error)
}

var _ Store = (*database.Client)(nil)

// selectRows renders a squirrel query in the store's placeholder style and runs it
func selectRows(ctx context.Context, store Store, query sq.SelectBuilder) ([]database.Row, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return store.SelectCustom(ctx, sql, args...)
}
