package models

// LearningPath represents the learning path assigned to a user
type LearningPath struct {
	Username         string `json:"username"`
	LearningPathName string `json:"learning_path_name"`
}
