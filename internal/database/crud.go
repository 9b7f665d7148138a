package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// CreateTable creates the table with the given columns if it does not exist.
func (c *Client) CreateTable(ctx context.Context, table string, columns []ColumnDef) error {
	query, err := c.buildCreateTable(table, columns)
	if err != nil {
		return c.rejected("create_table", table, err)
	}
	if _, err := c.exec(ctx, query, nil); err != nil {
		return err
	}

	c.logger.WithField("table", table).Info("Table created successfully")
	return nil
}

func (c *Client) buildCreateTable(table string, columns []ColumnDef) (string, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("create table %s: no columns given", table)
	}

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		name, err := c.quoteColumn(col.Name)
		if err != nil {
			return "", err
		}
		if err := validateColumnType(col.Type); err != nil {
			return "", err
		}
		defs = append(defs, name+" "+strings.TrimSpace(col.Type))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoted, strings.Join(defs, ", ")), nil
}

// InsertRecord inserts one row.
func (c *Client) InsertRecord(ctx context.Context, table string, record Record) error {
	query, args, err := c.buildInsert(table, record)
	if err != nil {
		return c.rejected("insert", table, err)
	}

	_, err = c.exec(ctx, query, args)
	return err
}

func (c *Client) buildInsert(table string, record Record) (string, []any, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", nil, err
	}
	if len(record) == 0 {
		return "", nil, fmt.Errorf("insert into %s: empty record", table)
	}

	columns, values := record.columnsAndValues()
	quotedCols, err := c.quoteColumns(columns)
	if err != nil {
		return "", nil, err
	}

	query, args, err := c.builder.Insert(quoted).Columns(quotedCols...).Values(values...).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build insert: %w", err)
	}
	return query, args, nil
}

// BulkInsert inserts all records in one transaction using a single prepared
// statement. The column list is taken from the first record; a column missing
// from a later record is inserted as NULL. Nothing is written unless every
// record succeeds. An empty slice performs no database interaction.
func (c *Client) BulkInsert(ctx context.Context, table string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	query, rows, err := c.buildBulkInsert(table, records)
	if err != nil {
		return c.rejected("bulk_insert", table, err)
	}

	err = c.inTransaction(ctx, query, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, values := range rows {
			if _, err := stmt.ExecContext(ctx, values...); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.WithField("table", table).WithField("count", len(records)).Info("Bulk insert completed")
	return nil
}

// buildBulkInsert returns the insert statement and the argument rows in the
// column order of the first record.
func (c *Client) buildBulkInsert(table string, records []Record) (string, [][]any, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", nil, err
	}
	if len(records[0]) == 0 {
		return "", nil, fmt.Errorf("bulk insert into %s: empty record", table)
	}

	columns, first := records[0].columnsAndValues()
	quotedCols, err := c.quoteColumns(columns)
	if err != nil {
		return "", nil, err
	}

	rows := make([][]any, len(records))
	rows[0] = first
	for i, rec := range records[1:] {
		for k := range rec {
			if _, ok := records[0][k]; !ok {
				return "", nil, fmt.Errorf("bulk insert into %s: record %d has column %q not present in the first record", table, i+1, k)
			}
		}
		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = rec[col]
		}
		rows[i+1] = values
	}

	query, _, err := c.builder.Insert(quoted).Columns(quotedCols...).Values(first...).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build insert: %w", err)
	}
	return query, rows, nil
}

// SelectAll returns every row of the table.
func (c *Client) SelectAll(ctx context.Context, table string) ([]Row, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return nil, c.rejected("select", table, err)
	}

	query, args, err := c.builder.Select("*").From(quoted).ToSql()
	if err != nil {
		return nil, c.rejected("select", table, fmt.Errorf("failed to build select: %w", err))
	}
	return c.query(ctx, query, args)
}

// SelectByCondition returns the rows where every condition column equals its value.
func (c *Client) SelectByCondition(ctx context.Context, table string, conditions Record) ([]Row, error) {
	query, args, err := c.buildSelectByCondition(table, conditions)
	if err != nil {
		return nil, c.rejected("select", table, err)
	}
	return c.query(ctx, query, args)
}

func (c *Client) buildSelectByCondition(table string, conditions Record) (string, []any, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", nil, err
	}

	builder, err := applyConditions(c, c.builder.Select("*").From(quoted), conditions)
	if err != nil {
		return "", nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build select: %w", err)
	}
	return query, args, nil
}

// UpdateRecords sets the update columns on every row matching all conditions
// and returns the number of affected rows.
func (c *Client) UpdateRecords(ctx context.Context, table string, updates, conditions Record) (int64, error) {
	query, args, err := c.buildUpdate(table, updates, conditions)
	if err != nil {
		return 0, c.rejected("update", table, err)
	}
	return c.exec(ctx, query, args)
}

func (c *Client) buildUpdate(table string, updates, conditions Record) (string, []any, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", nil, err
	}
	if len(updates) == 0 {
		return "", nil, fmt.Errorf("update %s: no columns to update", table)
	}

	builder := c.builder.Update(quoted)
	columns, values := updates.columnsAndValues()
	for i, col := range columns {
		name, err := c.quoteColumn(col)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Set(name, values[i])
	}
	builder, err = applyConditions(c, builder, conditions)
	if err != nil {
		return "", nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build update: %w", err)
	}
	return query, args, nil
}

// DeleteRecords deletes every row matching all conditions and returns the
// number of affected rows.
func (c *Client) DeleteRecords(ctx context.Context, table string, conditions Record) (int64, error) {
	query, args, err := c.buildDelete(table, conditions)
	if err != nil {
		return 0, c.rejected("delete", table, err)
	}
	return c.exec(ctx, query, args)
}

func (c *Client) buildDelete(table string, conditions Record) (string, []any, error) {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return "", nil, err
	}

	builder, err := applyConditions(c, c.builder.Delete(quoted), conditions)
	if err != nil {
		return "", nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build delete: %w", err)
	}
	return query, args, nil
}

// TruncateTable removes all rows and resets identity counters.
func (c *Client) TruncateTable(ctx context.Context, table string) error {
	quoted, err := c.quoteTable(table)
	if err != nil {
		return c.rejected("truncate", table, err)
	}

	if _, err := c.exec(ctx, c.dialect.truncateStatement(quoted), nil); err != nil {
		return err
	}

	c.logger.WithField("table", table).Info("Table truncated successfully")
	return nil
}

// rejected logs a failure detected before any statement was sent.
func (c *Client) rejected(op, table string, err error) error {
	c.logger.WithFields(logrus.Fields{"op": op, "table": table}).WithError(err).Error("Operation rejected")
	return err
}

func (c *Client) quoteColumns(columns []string) ([]string, error) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		q, err := c.quoteColumn(col)
		if err != nil {
			return nil, err
		}
		quoted[i] = q
	}
	return quoted, nil
}

// whereBuilder is satisfied by the squirrel select, update and delete builders.
type whereBuilder[T any] interface {
	Where(pred interface{}, args ...interface{}) T
}

// applyConditions adds one "col = ?" predicate per condition in sorted
// column order; squirrel joins them with AND.
func applyConditions[T whereBuilder[T]](c *Client, builder T, conditions Record) (T, error) {
	if len(conditions) == 0 {
		return builder, ErrNoConditions
	}

	columns, values := conditions.columnsAndValues()
	for i, col := range columns {
		name, err := c.quoteColumn(col)
		if err != nil {
			return builder, err
		}
		builder = builder.Where(name+" = ?", values[i])
	}
	return builder, nil
}
