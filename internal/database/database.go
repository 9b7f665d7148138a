package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ConnectionParameters identify the database server and credentials.
type ConnectionParameters struct {
	Host           string        `validate:"required"`
	Port           int           `validate:"required,min=1,max=65535"`
	Database       string        `validate:"required"`
	User           string        `validate:"required"`
	Password       string        `validate:"-"`
	SSLMode        string        `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout time.Duration `validate:"min=0"`
}

// Client is the relational access layer. Every operation acquires its own
// connection, runs inside a transaction and releases the connection before
// returning.
type Client struct {
	db      *sqlx.DB
	dialect Dialect
	builder sq.StatementBuilderType
	params  ConnectionParameters
	logger  *logrus.Entry
}

type options struct {
	logger          *logrus.Logger
	dialect         Dialect
	db              *sql.DB
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger used by the client; logrus.StandardLogger otherwise.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDialect selects the database flavour; the default is Postgres.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		o.dialect = d
	}
}

// WithDB uses an existing handle instead of opening one. Pool settings are
// left as the caller configured them.
func WithDB(db *sql.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithPool sets pool limits for a handle opened by the client. maxIdle of
// zero closes every connection on release.
func WithPool(maxOpen, maxIdle int, lifetime time.Duration) Option {
	return func(o *options) {
		o.maxOpenConns = maxOpen
		o.maxIdleConns = maxIdle
		o.connMaxLifetime = lifetime
	}
}

var validate = validator.New()

// New creates a Client. No connection is made until the first operation.
func New(params ConnectionParameters, opts ...Option) (*Client, error) {
	o := options{dialect: Postgres}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid connection parameters: %w", err)
	}

	logger := o.logger.WithField("component", "database")

	var db *sqlx.DB
	if o.db != nil {
		db = sqlx.NewDb(o.db, o.dialect.DriverName())
	} else {
		var err error
		db, err = sqlx.Open(o.dialect.DriverName(), o.dialect.DSN(params))
		if err != nil {
			cerr := &ConnectionError{Op: "open", Host: params.Host, Port: params.Port, Database: params.Database, Err: err}
			logger.WithError(err).Error("Failed to open database handle")
			return nil, cerr
		}
		db.SetMaxOpenConns(o.maxOpenConns)
		db.SetMaxIdleConns(o.maxIdleConns)
		db.SetConnMaxLifetime(o.connMaxLifetime)
	}

	logger.WithFields(logrus.Fields{
		"dialect":  o.dialect,
		"hostname": params.Host,
		"port":     params.Port,
		"database": params.Database,
	}).Debug("Database client created")

	return &Client{
		db:      db,
		dialect: o.dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(o.dialect.Placeholder()),
		params:  params,
		logger:  logger,
	}, nil
}

// Dialect returns the dialect the client was created with.
func (c *Client) Dialect() Dialect {
	return c.dialect
}

// Builder returns a statement builder that renders the dialect's native
// placeholders, for callers composing SQL for ExecuteQuery and SelectCustom.
func (c *Client) Builder() sq.StatementBuilderType {
	return c.builder
}

// Close closes the underlying handle.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	c.logger.Info("Closing database connection...")
	return c.db.Close()
}

// HealthCheck checks that the server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if err := c.db.PingContext(ctx); err != nil {
		return c.connectionFailed("ping", err)
	}
	return nil
}

// WithConnection acquires a dedicated connection, passes it to fn and
// releases it on every exit path, including a panic in fn.
func (c *Client) WithConnection(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := c.db.Connx(ctx)
	if err != nil {
		return c.connectionFailed("connect", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to release connection")
		}
	}()

	return fn(conn)
}

func (c *Client) connectionFailed(op string, err error) error {
	c.logger.WithFields(logrus.Fields{
		"op":       op,
		"hostname": c.params.Host,
		"port":     c.params.Port,
		"database": c.params.Database,
	}).WithError(err).Error("Database connection failed")

	return &ConnectionError{
		Op:       op,
		Host:     c.params.Host,
		Port:     c.params.Port,
		Database: c.params.Database,
		Err:      err,
	}
}
