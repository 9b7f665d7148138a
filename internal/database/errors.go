package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// ErrNoConditions is returned when a conditional statement is requested
// without any conditions; an unconditional UPDATE or DELETE is never built.
var ErrNoConditions = errors.New("at least one condition is required")

// ConnectionError is returned when a connection to the database server
// cannot be opened or verified.
type ConnectionError struct {
	Op       string
	Host     string
	Port     int
	Database string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed (%s %s:%d/%s): %v", e.Op, e.Host, e.Port, e.Database, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is matches any *ConnectionError, so callers can test for the class of
// failure with errors.Is(err, &ConnectionError{}).
func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// QueryError is returned when a statement fails. The transaction it ran in
// has been rolled back before the error is returned.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	_, ok := target.(*QueryError)
	return ok
}

// IdentifierError is returned when a table name, column name or column type
// does not pass validation. No database interaction takes place.
type IdentifierError struct {
	Identifier string
	Reason     string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Identifier, e.Reason)
}

func (e *IdentifierError) Is(target error) bool {
	_, ok := target.(*IdentifierError)
	return ok
}

// driverErrorFields extracts the server error code from a driver error for logging.
func driverErrorFields(err error) logrus.Fields {
	fields := logrus.Fields{}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields["sqlstate"] = pgErr.Code
		if pgErr.Detail != "" {
			fields["detail"] = pgErr.Detail
		}
		return fields
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		fields["mysql_errno"] = strconv.Itoa(int(myErr.Number))
		if myErr.SQLState != [5]byte{} {
			fields["sqlstate"] = string(myErr.SQLState[:])
		}
	}

	return fields
}
