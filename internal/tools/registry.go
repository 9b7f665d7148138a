package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/pls-team/pls-backend/internal/config"
	"github.com/pls-team/pls-backend/internal/dao"
	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
	"github.com/pls-team/pls-backend/pkg/utils"
)

// Tool set names
const (
	SetAssessment = "assessment"
	SetProfile    = "profile"
)

// ErrUnknownTool is returned by Invoke for a name that is not registered
var ErrUnknownTool = errors.New("unknown tool")

const connectionFailedMessage = "Database connection failed"

// LearningPathReader is implemented by dao.LearningPathDAO
type LearningPathReader interface {
	GetByUsername(ctx context.Context, username string) (*models.LearningPath, error)
}

// ProfileReader is implemented by dao.ProfileDAO
type ProfileReader interface {
	GetProfile(ctx context.Context, username string) (*models.UserProfile, error)
}

// Definition describes a tool to an agent: its name, what it does and the
// JSON schema of its arguments.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Set         string          `json:"set"`
	Parameters  json.RawMessage `json:"parameters"`
}

type handler func(ctx context.Context, args map[string]any) (any, error)

type tool struct {
	def    Definition
	schema *jsonschema.Schema
	run    handler
}

// Registry holds the tools of the enabled sets
type Registry struct {
	tools  map[string]*tool
	logger *logrus.Entry
}

// NewRegistry creates a registry exposing the tools of the enabled sets
func NewRegistry(paths LearningPathReader, profiles ProfileReader, cfg config.ToolsConfig, logger *logrus.Logger) (*Registry, error) {
	r := &Registry{
		tools:  make(map[string]*tool),
		logger: logger.WithField("component", "tools"),
	}

	builtin := map[string][]*tool{
		SetAssessment: {learningPathTool(paths)},
		SetProfile:    {userDataTool(profiles)},
	}

	for _, set := range cfg.EnabledSets {
		if _, ok := builtin[strings.ToLower(strings.TrimSpace(set))]; !ok {
			return nil, fmt.Errorf("unknown tool set: %s", set)
		}
	}

	for set, tools := range builtin {
		if !cfg.IsToolSetEnabled(set) {
			r.logger.WithField("set", set).Debug("Tool set disabled")
			continue
		}
		for _, t := range tools {
			if err := r.register(set, t); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Registry) register(set string, t *tool) error {
	url := "mem://tools/" + t.def.Name + ".json"

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(url, strings.NewReader(string(t.def.Parameters))); err != nil {
		return fmt.Errorf("failed to load schema for tool %s: %w", t.def.Name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile schema for tool %s: %w", t.def.Name, err)
	}

	t.def.Set = set
	t.schema = schema
	r.tools[t.def.Name] = t
	return nil
}

// Definitions returns the registered tools sorted by name
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Invoke runs the named tool with JSON encoded arguments and returns its JSON
// result. Failures inside the tool are reported to the agent as an
// {"error": message} result; only an unknown tool name is returned as an error.
func (r *Registry) Invoke(ctx context.Context, name string, args []byte) ([]byte, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	logger := r.logger.WithFields(logrus.Fields{
		"invocation_id": utils.GenerateInvocationID(),
		"tool":          name,
	})

	result, err := r.run(ctx, t, args)
	if err != nil {
		logger.WithError(err).WithField("duration_ms", utils.ElapsedMillis(start)).Warn("Tool invocation failed")
		return errorPayload(err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		logger.WithError(err).Error("Failed to encode tool result")
		return errorPayload(err)
	}

	logger.WithField("duration_ms", utils.ElapsedMillis(start)).Info("Tool invoked")
	return out, nil
}

func (r *Registry) run(ctx context.Context, t *tool, raw []byte) (any, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := t.schema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	args, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid arguments: expected an object")
	}
	return t.run(ctx, args)
}

func errorPayload(err error) ([]byte, error) {
	msg := err.Error()
	if errors.Is(err, &database.ConnectionError{}) {
		msg = connectionFailedMessage
	}
	return json.Marshal(map[string]string{"error": msg})
}

// usernameArg extracts and validates the username argument
func usernameArg(args map[string]any) (string, error) {
	raw, _ := args["username"].(string)
	username := utils.SanitizeString(raw)
	if err := utils.ValidateUsername(username); err != nil {
		return "", err
	}
	return username, nil
}

var _ LearningPathReader = (*dao.LearningPathDAO)(nil)
var _ ProfileReader = (*dao.ProfileDAO)(nil)
