package dao

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
)

const learningPathsTable = "learning_paths"

// LearningPathDAO handles database operations for learning paths
type LearningPathDAO struct {
	store Store
}

// NewLearningPathDAO creates a new LearningPathDAO
func NewLearningPathDAO(store Store) *LearningPathDAO {
	return &LearningPathDAO{store: store}
}

// GetByUsername retrieves the learning path assigned to a user
func (dao *LearningPathDAO) GetByUsername(ctx context.Context, username string) (*models.LearningPath, error) {
	query := dao.store.Builder().
		Select("learning_path_name").
		From(learningPathsTable).
		Where(sq.Eq{"username": username})

	rows, err := selectRows(ctx, dao.store, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get learning path: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("learning path for user %s: %w", username, ErrNotFound)
	}

	return &models.LearningPath{
		Username:         username,
		LearningPathName: rows[0].String("learning_path_name"),
	}, nil
}

// Assign sets the learning path of a user, creating the assignment if the
// user has none yet
func (dao *LearningPathDAO) Assign(ctx context.Context, path *models.LearningPath) error {
	updated, err := dao.store.UpdateRecords(ctx, learningPathsTable,
		database.Record{"learning_path_name": path.LearningPathName},
		database.Record{"username": path.Username},
	)
	if err != nil {
		return fmt.Errorf("failed to update learning path: %w", err)
	}
	if updated > 0 {
		return nil
	}

	err = dao.store.InsertRecord(ctx, learningPathsTable, database.Record{
		"username":           path.Username,
		"learning_path_name": path.LearningPathName,
	})
	if err != nil {
		return fmt.Errorf("failed to create learning path: %w", err)
	}
	return nil
}
