package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorTypes_MatchByClass(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	connErr := fmt.Errorf("wrapped: %w", &ConnectionError{Op: "connect", Host: "db", Port: 5432, Database: "pls", Err: cause})

	assert.ErrorIs(t, connErr, &ConnectionError{})
	assert.ErrorIs(t, connErr, cause)
	assert.NotErrorIs(t, connErr, &QueryError{})
	assert.Contains(t, connErr.Error(), "db:5432/pls")

	queryErr := &QueryError{SQL: "SELECT 1", Err: cause}
	assert.ErrorIs(t, queryErr, &QueryError{})
	assert.NotErrorIs(t, queryErr, &IdentifierError{})

	identErr := &IdentifierError{Identifier: "x;y", Reason: "bad"}
	assert.ErrorIs(t, identErr, &IdentifierError{})
	assert.Equal(t, `invalid identifier "x;y": bad`, identErr.Error())
}

func TestQueryError_UnwrapsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	err := error(&QueryError{SQL: "INSERT", Err: fmt.Errorf("record 0: %w", pgErr)})

	var target *pgconn.PgError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "23505", target.Code)
}

func TestDriverErrorFields(t *testing.T) {
	fields := driverErrorFields(&pgconn.PgError{Code: "42P01", Detail: "no such table"})
	assert.Equal(t, "42P01", fields["sqlstate"])
	assert.Equal(t, "no such table", fields["detail"])

	fields = driverErrorFields(&mysql.MySQLError{Number: 1146, SQLState: [5]byte{'4', '2', 'S', '0', '2'}})
	assert.Equal(t, "1146", fields["mysql_errno"])
	assert.Equal(t, "42S02", fields["sqlstate"])

	assert.Empty(t, driverErrorFields(errors.New("plain")))
}
