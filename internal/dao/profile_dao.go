package dao

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/internal/models"
)

// ProfileDAO reads the ERP profile, course history and performance ratings of users
type ProfileDAO struct {
	store Store
}

// NewProfileDAO creates a new ProfileDAO
func NewProfileDAO(store Store) *ProfileDAO {
	return &ProfileDAO{store: store}
}

// GetUser retrieves the ERP record of a user
func (dao *ProfileDAO) GetUser(ctx context.Context, username string) (*database.Row, error) {
	query := dao.store.Builder().
		Select("e.employee_id", "e.first_name", "e.last_name", "e.department", "e.position").
		From("erp_employees e").
		Where(sq.Eq{"e.username": username})

	rows, err := selectRows(ctx, dao.store, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return &rows[0], nil
}

// GetCourseCompletions retrieves the completed courses of a user, newest first
func (dao *ProfileDAO) GetCourseCompletions(ctx context.Context, username string) ([]database.Row, error) {
	query := dao.store.Builder().
		Select("c.course_name", "c.completion_date", "c.score").
		From("course_completions c").
		Where(sq.Eq{"c.username": username}).
		OrderBy("c.completion_date DESC")

	rows, err := selectRows(ctx, dao.store, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get course completions: %w", err)
	}
	return nonNil(rows), nil
}

// GetPerformanceRatings retrieves the performance ratings of a user, newest period first
func (dao *ProfileDAO) GetPerformanceRatings(ctx context.Context, username string) ([]database.Row, error) {
	query := dao.store.Builder().
		Select("p.rating_period", "p.overall_rating", "p.feedback").
		From("performance_ratings p").
		Where(sq.Eq{"p.username": username}).
		OrderBy("p.rating_period DESC")

	rows, err := selectRows(ctx, dao.store, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get performance ratings: %w", err)
	}
	return nonNil(rows), nil
}

// GetProfile retrieves the full profile of a user. A user without an ERP
// record yields a profile with nil UserData.
func (dao *ProfileDAO) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	profile := &models.UserProfile{}

	user, err := dao.GetUser(ctx, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	profile.UserData = user

	if profile.CourseCompletions, err = dao.GetCourseCompletions(ctx, username); err != nil {
		return nil, err
	}
	if profile.PerformanceRatings, err = dao.GetPerformanceRatings(ctx, username); err != nil {
		return nil, err
	}

	return profile, nil
}

func nonNil(rows []database.Row) []database.Row {
	if rows == nil {
		return []database.Row{}
	}
	return rows
}
