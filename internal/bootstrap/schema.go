package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pls-team/pls-backend/internal/database"
)

// Table is the declaration of one application table
type Table struct {
	Name    string
	Columns []database.ColumnDef
}

// SchemaStore is the subset of the access layer used to manage the schema
type SchemaStore interface {
	TableExists(ctx context.Context, table string) (bool, error)
	CreateTable(ctx context.Context, table string, columns []database.ColumnDef) error
}

// Tables returns the application tables in creation order
func Tables() []Table {
	return []Table{
		{
			Name: "learning_paths",
			Columns: []database.ColumnDef{
				{Name: "username", Type: "VARCHAR(255) PRIMARY KEY"},
				{Name: "learning_path_name", Type: "VARCHAR(255) NOT NULL"},
			},
		},
		{
			Name: "erp_employees",
			Columns: []database.ColumnDef{
				{Name: "employee_id", Type: "INTEGER PRIMARY KEY"},
				{Name: "username", Type: "VARCHAR(255) NOT NULL UNIQUE"},
				{Name: "first_name", Type: "VARCHAR(100)"},
				{Name: "last_name", Type: "VARCHAR(100)"},
				{Name: "department", Type: "VARCHAR(100)"},
				{Name: "position", Type: "VARCHAR(100)"},
			},
		},
		{
			Name: "course_completions",
			Columns: []database.ColumnDef{
				{Name: "username", Type: "VARCHAR(255) NOT NULL"},
				{Name: "course_name", Type: "VARCHAR(255) NOT NULL"},
				{Name: "completion_date", Type: "DATE"},
				{Name: "score", Type: "NUMERIC(5,2)"},
			},
		},
		{
			Name: "performance_ratings",
			Columns: []database.ColumnDef{
				{Name: "username", Type: "VARCHAR(255) NOT NULL"},
				{Name: "rating_period", Type: "VARCHAR(20) NOT NULL"},
				{Name: "overall_rating", Type: "NUMERIC(3,1)"},
				{Name: "feedback", Type: "TEXT"},
			},
		},
		{
			Name: "employees",
			Columns: []database.ColumnDef{
				{Name: "id", Type: "INTEGER PRIMARY KEY"},
				{Name: "name", Type: "VARCHAR(255) NOT NULL"},
				{Name: "position", Type: "VARCHAR(100)"},
				{Name: "department", Type: "VARCHAR(100)"},
			},
		},
	}
}

// EnsureSchema creates every application table that does not exist yet and
// returns the names of the tables it created
func EnsureSchema(ctx context.Context, store SchemaStore, logger *logrus.Logger) ([]string, error) {
	log := logger.WithField("component", "bootstrap")
	created := []string{}

	for _, table := range Tables() {
		exists, err := store.TableExists(ctx, table.Name)
		if err != nil {
			return created, fmt.Errorf("failed to check table %s: %w", table.Name, err)
		}
		if exists {
			log.WithField("table", table.Name).Debug("Table already exists")
			continue
		}

		if err := store.CreateTable(ctx, table.Name, table.Columns); err != nil {
			return created, fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		created = append(created, table.Name)
	}

	log.WithField("created", created).Info("Schema is up to date")
	return created, nil
}
