package bootstrap

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pls-team/pls-backend/internal/database"
)

// SeedStore is the subset of the access layer used to load seed data
type SeedStore interface {
	BulkInsert(ctx context.Context, table string, records []database.Record) error
}

// ParseSeed decodes a YAML document mapping table names to lists of records
func ParseSeed(r io.Reader) (map[string][]database.Record, error) {
	var doc map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return map[string][]database.Record{}, nil
		}
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	seed := make(map[string][]database.Record, len(doc))
	for table, rows := range doc {
		records := make([]database.Record, len(rows))
		for i, row := range rows {
			records[i] = database.Record(row)
		}
		seed[table] = records
	}
	return seed, nil
}

// Seed loads the YAML seed document into the database, one bulk insert per
// table in table name order, and returns the number of records inserted
func Seed(ctx context.Context, store SeedStore, r io.Reader, logger *logrus.Logger) (int, error) {
	seed, err := ParseSeed(r)
	if err != nil {
		return 0, err
	}

	tables := make([]string, 0, len(seed))
	for table := range seed {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	log := logger.WithField("component", "bootstrap")
	total := 0
	for _, table := range tables {
		records := seed[table]
		if err := store.BulkInsert(ctx, table, records); err != nil {
			return total, fmt.Errorf("failed to seed table %s: %w", table, err)
		}
		total += len(records)
		log.WithFields(logrus.Fields{"table": table, "records": len(records)}).Info("Seeded table")
	}

	return total, nil
}
