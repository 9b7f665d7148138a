package dao

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
)

const learningPathQuery = `SELECT learning_path_name FROM learning_paths WHERE username = $1`

func TestLearningPathDAO_GetByUsername(t *testing.T) {
	store, mock := newTestStore(t)
	dao := NewLearningPathDAO(store)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(learningPathQuery)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"learning_path_name"}).AddRow("Cloud Native Engineer"))
	mock.ExpectCommit()

	path, err := dao.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, &models.LearningPath{Username: "alice", LearningPathName: "Cloud Native Engineer"}, path)
}

func TestLearningPathDAO_GetByUsername_NotFound(t *testing.T) {
	store, mock := newTestStore(t)
	dao := NewLearningPathDAO(store)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(learningPathQuery)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"learning_path_name"}))
	mock.ExpectCommit()

	path, err := dao.GetByUsername(context.Background(), "ghost")

	assert.Nil(t, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLearningPathDAO_GetByUsername_QueryFailure(t *testing.T) {
	store, mock := newTestStore(t)
	dao := NewLearningPathDAO(store)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(learningPathQuery)).
		WithArgs("alice").
		WillReturnError(errors.New("relation \"learning_paths\" does not exist"))
	mock.ExpectRollback()

	_, err := dao.GetByUsername(context.Background(), "alice")

	assert.ErrorIs(t, err, &database.QueryError{})
	assert.Contains(t, err.Error(), "failed to get learning path")
}

func TestLearningPathDAO_Assign_UpdatesExisting(t *testing.T) {
	store, mock := newTestStore(t)
	dao := NewLearningPathDAO(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "learning_paths" SET "learning_path_name" = $1 WHERE "username" = $2`)).
		WithArgs("Data Engineer", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := dao.Assign(context.Background(), &models.LearningPath{Username: "alice", LearningPathName: "Data Engineer"})

	assert.NoError(t, err)
}

func TestLearningPathDAO_Assign_InsertsWhenMissing(t *testing.T) {
	store, mock := newTestStore(t)
	dao := NewLearningPathDAO(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "learning_paths"`)).
		WithArgs("Data Engineer", "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "learning_paths" ("learning_path_name","username") VALUES ($1,$2)`)).
		WithArgs("Data Engineer", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := dao.Assign(context.Background(), &models.LearningPath{Username: "bob", LearningPathName: "Data Engineer"})

	assert.NoError(t, err)
}
