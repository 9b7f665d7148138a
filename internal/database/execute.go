package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// inTransaction runs fn on a dedicated connection inside a transaction.
// The transaction is committed when fn succeeds and rolled back before any
// error is returned. A panic in fn rolls back and re-panics.
func (c *Client) inTransaction(ctx context.Context, query string, fn func(tx *sqlx.Tx) error) error {
	return c.WithConnection(ctx, func(conn *sqlx.Conn) error {
		tx, err := conn.BeginTxx(ctx, nil)
		if err != nil {
			return c.queryFailed(query, err)
		}
		c.logger.Debug("Transaction started")

		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			}
		}()

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				c.logger.WithError(rbErr).Error("Failed to rollback transaction")
			}
			return c.queryFailed(query, err)
		}

		if err := tx.Commit(); err != nil {
			return c.queryFailed(query, err)
		}
		c.logger.Debug("Transaction committed")
		return nil
	})
}

func (c *Client) queryFailed(query string, err error) error {
	fields := driverErrorFields(err)
	fields["sql"] = query
	c.logger.WithFields(fields).WithError(err).Error("Query failed")

	return &QueryError{SQL: query, Err: err}
}

// ExecuteQuery runs one statement with bind parameters and commits it.
// The query is sent unchanged, so parameters use the driver's native
// placeholders ($1 for postgres, ? for mysql).
// Rows are returned for statements that produce a result set (an empty,
// non-nil slice when no rows match) and nil for statements that do not.
func (c *Client) ExecuteQuery(ctx context.Context, query string, params ...any) ([]Row, error) {
	return c.query(ctx, query, params)
}

// SelectCustom runs a caller supplied read query with bind parameters.
func (c *Client) SelectCustom(ctx context.Context, query string, params ...any) ([]Row, error) {
	return c.query(ctx, query, params)
}

func (c *Client) query(ctx context.Context, query string, args []any) ([]Row, error) {
	c.logger.WithField("sql", query).Debug("Executing query")

	var result []Row
	err := c.inTransaction(ctx, query, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryxContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			return rows.Err()
		}

		result = []Row{}
		for rows.Next() {
			values, err := rows.SliceScan()
			if err != nil {
				return err
			}
			result = append(result, newRow(columns, values))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// exec runs one statement that produces no result set and returns the number
// of affected rows.
func (c *Client) exec(ctx context.Context, query string, args []any) (int64, error) {
	c.logger.WithField("sql", query).Debug("Executing statement")

	var affected int64
	err := c.inTransaction(ctx, query, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	c.logger.WithFields(logrus.Fields{"sql": query, "rows_affected": affected}).Debug("Statement executed")
	return affected, nil
}
