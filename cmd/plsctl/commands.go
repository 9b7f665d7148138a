package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/pls-team/pls-backend/internal/bootstrap"
	"github.com/pls-team/pls-backend/internal/config"
	"github.com/pls-team/pls-backend/internal/dao"
	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
	"github.com/pls-team/pls-backend/internal/tools"
	"github.com/pls-team/pls-backend/pkg/utils"
)

var errUsage = errors.New("invalid usage, run plsctl --help")

type app struct {
	client        *database.Client
	employees     *dao.EmployeeDAO
	learningPaths *dao.LearningPathDAO
	registry      *tools.Registry
	logger        *logrus.Logger
	out           io.Writer
}

func newApp(client *database.Client, toolsCfg config.ToolsConfig, logger *logrus.Logger, out io.Writer) (*app, error) {
	learningPaths := dao.NewLearningPathDAO(client)

	registry, err := tools.NewRegistry(
		learningPaths,
		dao.NewProfileDAO(client),
		toolsCfg,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &app{
		client:        client,
		employees:     dao.NewEmployeeDAO(client),
		learningPaths: learningPaths,
		registry:      registry,
		logger:        logger,
		out:           out,
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "health":
		return a.health(ctx)
	case "migrate":
		return a.migrate(ctx)
	case "seed":
		if len(rest) != 1 {
			return fmt.Errorf("seed requires a file: %w", errUsage)
		}
		return a.seed(ctx, rest[0])
	case "tables":
		return a.tables(ctx)
	case "describe":
		if len(rest) != 1 {
			return fmt.Errorf("describe requires a table name: %w", errUsage)
		}
		return a.describe(ctx, rest[0])
	case "employee":
		if len(rest) != 1 {
			return fmt.Errorf("employee requires an ID: %w", errUsage)
		}
		return a.employee(ctx, rest[0])
	case "employees":
		return a.listEmployees(ctx)
	case "assign":
		if len(rest) != 2 {
			return fmt.Errorf("assign requires a username and a learning path: %w", errUsage)
		}
		return a.assign(ctx, rest[0], rest[1])
	case "tool":
		return a.tool(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func (a *app) health(ctx context.Context) error {
	if err := a.client.HealthCheck(ctx); err != nil {
		return err
	}
	return a.print(map[string]string{
		"status":     "ok",
		"checked_at": utils.FormatTime(time.Now().UTC()),
	})
}

func (a *app) migrate(ctx context.Context) error {
	created, err := bootstrap.EnsureSchema(ctx, a.client, a.logger)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"created": created})
}

func (a *app) seed(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	total, err := bootstrap.Seed(ctx, a.client, f, a.logger)
	if err != nil {
		return err
	}
	return a.print(map[string]int{"inserted": total})
}

func (a *app) tables(ctx context.Context) error {
	status := make(map[string]bool)
	for _, table := range bootstrap.Tables() {
		exists, err := a.client.TableExists(ctx, table.Name)
		if err != nil {
			return err
		}
		status[table.Name] = exists
	}
	return a.print(status)
}

func (a *app) describe(ctx context.Context, table string) error {
	columns, err := a.client.GetTableSchema(ctx, table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("table %s not found", table)
	}
	return a.print(columns)
}

func (a *app) employee(ctx context.Context, arg string) error {
	id, err := cast.ToInt64E(arg)
	if err != nil {
		return fmt.Errorf("invalid employee ID %q", arg)
	}
	if err := utils.ValidateEmployeeID(id); err != nil {
		return err
	}

	employee, err := a.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return a.print(employee)
}

func (a *app) listEmployees(ctx context.Context) error {
	employees, err := a.employees.List(ctx)
	if err != nil {
		return err
	}
	return a.print(employees)
}

func (a *app) assign(ctx context.Context, username, pathName string) error {
	username = utils.SanitizeString(username)
	if err := utils.ValidateUsername(username); err != nil {
		return err
	}
	pathName = utils.SanitizeString(pathName)
	if err := utils.ValidateRequired("learning path", pathName); err != nil {
		return err
	}

	path := &models.LearningPath{Username: username, LearningPathName: pathName}
	if err := a.learningPaths.Assign(ctx, path); err != nil {
		return err
	}

	a.logger.WithField("username", username).Info("Learning path assigned")
	return a.print(path)
}

func (a *app) tool(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("tool requires a subcommand: %w", errUsage)
	}

	switch args[0] {
	case "list":
		return a.print(a.registry.Definitions())
	case "call":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("tool call requires a name and optional JSON arguments: %w", errUsage)
		}
		var raw []byte
		if len(args) == 3 {
			raw = []byte(args[2])
		}
		out, err := a.registry.Invoke(ctx, args[1], raw)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(out))
		return err
	default:
		return fmt.Errorf("unknown tool subcommand %q: %w", args[0], errUsage)
	}
}

func (a *app) print(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
