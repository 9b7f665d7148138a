package database

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testParams() ConnectionParameters {
	return ConnectionParameters{
		Host:     "localhost",
		Port:     5432,
		Database: "pls",
		User:     "app",
		Password: "secret",
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newMockClient returns a Client over a sqlmock handle. The expectations are
// verified when the test completes.
func newMockClient(t *testing.T, dialect Dialect) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	client, err := New(testParams(), WithDB(db), WithDialect(dialect), WithLogger(testLogger()))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return client, mock
}
