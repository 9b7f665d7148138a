package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cast"
)

// tableFilter restricts a catalog query to the table's explicit schema, or to
// the current schema for an unqualified name.
func (c *Client) tableFilter(builder sq.SelectBuilder, table string) (sq.SelectBuilder, error) {
	if _, err := c.quoteTable(table); err != nil {
		return builder, err
	}

	schema, name := splitTable(table)
	if schema != "" {
		builder = builder.Where("table_schema = ?", schema)
	} else {
		builder = builder.Where("table_schema = " + c.dialect.currentSchemaExpr())
	}
	return builder.Where("table_name = ?", name), nil
}

// TableExists reports whether the table exists.
func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	sub, err := c.tableFilter(c.builder.Select("1").From("information_schema.tables"), table)
	if err != nil {
		return false, c.rejected("table_exists", table, err)
	}

	subSQL, args, err := sub.ToSql()
	if err != nil {
		return false, c.rejected("table_exists", table, fmt.Errorf("failed to build table lookup: %w", err))
	}

	rows, err := c.query(ctx, "SELECT EXISTS ("+subSQL+") AS table_exists", args)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	exists, err := rows[0].Bool("table_exists")
	if err != nil {
		return false, fmt.Errorf("unexpected table_exists value: %w", err)
	}
	return exists, nil
}

// GetTableSchema returns the table's columns in declaration order. A table
// that does not exist yields an empty slice.
func (c *Client) GetTableSchema(ctx context.Context, table string) ([]ColumnInfo, error) {
	builder := c.builder.Select(
		"column_name AS column_name",
		"data_type AS data_type",
		"character_maximum_length AS character_maximum_length",
	).From("information_schema.columns")

	builder, err := c.tableFilter(builder, table)
	if err != nil {
		return nil, c.rejected("table_schema", table, err)
	}

	query, args, err := builder.OrderBy("ordinal_position").ToSql()
	if err != nil {
		return nil, c.rejected("table_schema", table, fmt.Errorf("failed to build schema lookup: %w", err))
	}

	rows, err := c.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		info := ColumnInfo{
			ColumnName: row.String("column_name"),
			DataType:   row.String("data_type"),
		}
		if v, _ := row.Get("character_maximum_length"); v != nil {
			n, err := cast.ToInt64E(v)
			if err != nil {
				return nil, fmt.Errorf("unexpected character_maximum_length for %s: %w", info.ColumnName, err)
			}
			info.MaxLength = &n
		}
		columns = append(columns, info)
	}
	return columns, nil
}
