package models

import (
	"github.com/pls-team/pls-backend/internal/database"
)

// UserProfile aggregates the ERP record, course history and performance
// ratings of one user. UserData is nil when the user has no ERP record.
type UserProfile struct {
	UserData           *database.Row  `json:"user_data"`
	CourseCompletions  []database.Row `json:"course_completions"`
	PerformanceRatings []database.Row `json:"performance_ratings"`
}
