package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pls-team/pls-backend/internal/config"
	"github.com/pls-team/pls-backend/internal/dao"
	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
	"github.com/pls-team/pls-backend/internal/tools/mocks"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRegistry(t *testing.T, sets ...string) (*Registry, *mocks.MockLearningPathReader, *mocks.MockProfileReader) {
	t.Helper()

	paths := &mocks.MockLearningPathReader{}
	profiles := &mocks.MockProfileReader{}
	if len(sets) == 0 {
		sets = []string{SetAssessment, SetProfile}
	}

	registry, err := NewRegistry(paths, profiles, config.ToolsConfig{EnabledSets: sets}, testLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		paths.AssertExpectations(t)
		profiles.AssertExpectations(t)
	})
	return registry, paths, profiles
}

func TestNewRegistry_EnabledSets(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "Assessment")

	defs := registry.Definitions()

	require.Len(t, defs, 1)
	assert.Equal(t, "get_learning_path", defs[0].Name)
	assert.Equal(t, SetAssessment, defs[0].Set)
	assert.JSONEq(t, usernameParameters, string(defs[0].Parameters))
}

func TestNewRegistry_UnknownSet(t *testing.T) {
	_, err := NewRegistry(&mocks.MockLearningPathReader{}, &mocks.MockProfileReader{},
		config.ToolsConfig{EnabledSets: []string{"payroll"}}, testLogger())

	assert.EqualError(t, err, "unknown tool set: payroll")
}

func TestNewRegistry_OnlyEnabledSetsRegistered(t *testing.T) {
	registry, err := NewRegistry(&mocks.MockLearningPathReader{}, &mocks.MockProfileReader{},
		config.ToolsConfig{EnabledSets: []string{" Profile "}}, testLogger())
	require.NoError(t, err)

	defs := registry.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "get_user_data", defs[0].Name)

	_, err = registry.Invoke(context.Background(), "get_learning_path", []byte(`{"username":"alice"}`))
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestNewRegistry_NoSetsEnabled(t *testing.T) {
	registry, err := NewRegistry(&mocks.MockLearningPathReader{}, &mocks.MockProfileReader{},
		config.ToolsConfig{}, testLogger())

	require.NoError(t, err)
	assert.Empty(t, registry.Definitions())
}

func TestDefinitions_SortedByName(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	defs := registry.Definitions()

	require.Len(t, defs, 2)
	assert.Equal(t, "get_learning_path", defs[0].Name)
	assert.Equal(t, "get_user_data", defs[1].Name)
}

func TestInvoke_UnknownTool(t *testing.T) {
	registry, _, _ := newTestRegistry(t, SetAssessment)

	out, err := registry.Invoke(context.Background(), "get_user_data", []byte(`{"username":"alice"}`))

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestInvoke_GetLearningPath(t *testing.T) {
	registry, paths, _ := newTestRegistry(t)
	paths.On("GetByUsername", mock.Anything, "alice").
		Return(&models.LearningPath{Username: "alice", LearningPathName: "Cloud Native Engineer"}, nil)

	out, err := registry.Invoke(context.Background(), "get_learning_path", []byte(`{"username":"alice"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"learning_path_name":"Cloud Native Engineer"}`, string(out))
}

func TestInvoke_GetLearningPath_NotFound(t *testing.T) {
	registry, paths, _ := newTestRegistry(t)
	paths.On("GetByUsername", mock.Anything, "ghost").
		Return(nil, fmt.Errorf("learning path for user ghost: %w", dao.ErrNotFound))

	out, err := registry.Invoke(context.Background(), "get_learning_path", []byte(`{"username":"ghost"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No learning path found for the user"}`, string(out))
}

func TestInvoke_ConnectionFailure(t *testing.T) {
	registry, paths, _ := newTestRegistry(t)
	connErr := &database.ConnectionError{Op: "connect", Host: "127.0.0.1", Port: 5432, Database: "db_pls", Err: errors.New("refused")}
	paths.On("GetByUsername", mock.Anything, "alice").
		Return(nil, fmt.Errorf("failed to get learning path: %w", connErr))

	out, err := registry.Invoke(context.Background(), "get_learning_path", []byte(`{"username":"alice"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Database connection failed"}`, string(out))
}

func TestInvoke_QueryFailureReportsMessage(t *testing.T) {
	registry, paths, _ := newTestRegistry(t)
	paths.On("GetByUsername", mock.Anything, "alice").
		Return(nil, errors.New("failed to get learning path: query failed: boom"))

	out, err := registry.Invoke(context.Background(), "get_learning_path", []byte(`{"username":"alice"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"failed to get learning path: query failed: boom"}`, string(out))
}

func TestInvoke_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"malformed json", `{"username":`},
		{"missing username", `{}`},
		{"wrong type", `{"username":42}`},
		{"unexpected field", `{"username":"alice","admin":true}`},
		{"not an object", `["alice"]`},
		{"blank username", `{"username":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, _, _ := newTestRegistry(t)

			out, err := registry.Invoke(context.Background(), "get_learning_path", []byte(tt.args))

			require.NoError(t, err)
			assert.Contains(t, string(out), `"error"`)
		})
	}
}

func TestInvoke_GetUserData(t *testing.T) {
	registry, _, profiles := newTestRegistry(t)
	user := database.Row{
		Columns: []string{"employee_id", "first_name", "last_name", "department", "position"},
		Values:  []any{int64(7), "Alice", "Smith", "Engineering", "Developer"},
	}
	profiles.On("GetProfile", mock.Anything, "alice").Return(&models.UserProfile{
		UserData: &user,
		CourseCompletions: []database.Row{{
			Columns: []string{"course_name", "completion_date", "score"},
			Values:  []any{"Go Fundamentals", time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), 92.5},
		}},
		PerformanceRatings: []database.Row{},
	}, nil)

	out, err := registry.Invoke(context.Background(), "get_user_data", []byte(`{"username":"alice"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user_data": {"employee_id": 7, "first_name": "Alice", "last_name": "Smith", "department": "Engineering", "position": "Developer"},
		"course_completions": [{"course_name": "Go Fundamentals", "completion_date": "2024-05-02", "score": 92.5}],
		"performance_ratings": []
	}`, string(out))
}

func TestInvoke_GetUserData_UnknownUser(t *testing.T) {
	registry, _, profiles := newTestRegistry(t)
	profiles.On("GetProfile", mock.Anything, "ghost").Return(&models.UserProfile{
		CourseCompletions:  []database.Row{},
		PerformanceRatings: []database.Row{},
	}, nil)

	out, err := registry.Invoke(context.Background(), "get_user_data", []byte(`{"username":"ghost"}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"user_data":null,"course_completions":[],"performance_ratings":[]}`, string(out))
}
