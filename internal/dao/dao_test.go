package dao

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/pls-team/pls-backend/internal/database"
)

// newTestStore returns an access layer client backed by sqlmock
func newTestStore(t *testing.T) (*database.Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := database.New(database.ConnectionParameters{
		Host:     "localhost",
		Port:     5432,
		Database: "db_pls",
		User:     "db_pls_user",
	}, database.WithDB(db), database.WithLogger(logger))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return client, mock
}
