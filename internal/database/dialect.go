package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect selects the database server flavour.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a configured database type to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", name)
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == MySQL {
		return "mysql"
	}
	return "pgx"
}

// Placeholder returns the driver's native bind style: $n for postgres, ? for mysql.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == MySQL {
		return sq.Question
	}
	return sq.Dollar
}

// Quote quotes a validated identifier, keeping an optional schema prefix separate.
func (d Dialect) Quote(ident string) string {
	q := `"`
	if d == MySQL {
		q = "`"
	}
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = q + p + q
	}
	return strings.Join(parts, ".")
}

func (d Dialect) truncateStatement(table string) string {
	if d == MySQL {
		return "TRUNCATE TABLE " + table
	}
	return "TRUNCATE TABLE " + table + " RESTART IDENTITY"
}

func (d Dialect) currentSchemaExpr() string {
	if d == MySQL {
		return "DATABASE()"
	}
	return "current_schema()"
}

// DSN builds the driver data source name from connection parameters.
func (d Dialect) DSN(p ConnectionParameters) string {
	if d == MySQL {
		return mysqlDSN(p)
	}
	return postgresDSN(p)
}

func postgresDSN(p ConnectionParameters) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.Database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}

	query := url.Values{}
	if p.SSLMode != "" {
		query.Set("sslmode", p.SSLMode)
	}
	if p.ConnectTimeout > 0 {
		secs := int(p.ConnectTimeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		query.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = query.Encode()

	return u.String()
}

func mysqlDSN(p ConnectionParameters) string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	cfg.DBName = p.Database
	cfg.ParseTime = true
	if p.ConnectTimeout > 0 {
		cfg.Timeout = p.ConnectTimeout
	}

	switch p.SSLMode {
	case "disable":
		cfg.TLSConfig = "false"
	case "require":
		cfg.TLSConfig = "skip-verify"
	case "verify-ca", "verify-full":
		cfg.TLSConfig = "true"
	case "prefer", "allow":
		cfg.TLSConfig = "preferred"
	}

	return cfg.FormatDSN()
}
