package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/pls-team/pls-backend/internal/config"
	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/logging"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

const usageText = `Usage: plsctl [flags] <command> [args]

Commands:
  health                     Check that the database is reachable
  migrate                    Create missing application tables
  seed <file>                Load a YAML seed file (table -> list of records)
  tables                     Report which application tables exist
  describe <table>           Show the columns of a table
  employee <id>              Look up an employee by ID
  employees                  List all employees
  assign <user> <path>       Assign a learning path to a user
  tool list                  List the agent tools and their parameters
  tool call <name> <json>    Invoke an agent tool with JSON arguments

Flags:
`

func main() {
	flags := pflag.NewFlagSet("plsctl", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", os.Getenv("PLS_CONFIG_PATH"), "Path to the configuration file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("db-type", "", "Database type (postgres, mysql)")
	flags.String("db-host", "", "Database host")
	flags.Int("db-port", 0, "Database port")
	flags.String("db-name", "", "Database name")
	flags.String("db-user", "", "Database user")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
		"command":    flags.Arg(0),
	}).Debug("Starting plsctl")

	if err := run(cfg, logger, flags.Args()); err != nil {
		logger.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger, args []string) error {
	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return err
	}

	client, err := database.New(cfg.Database.ConnectionParameters(),
		database.WithDialect(dialect),
		database.WithLogger(logger),
		database.WithPool(cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.WithFields(logrus.Fields{
		"address":  cfg.Database.GetAddress(),
		"database": cfg.Database.Database,
	}).Debug("Database client configured")

	app, err := newApp(client, cfg.Tools, logger, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.run(ctx, args)
}
