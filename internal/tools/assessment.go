package tools

import (
	"context"
	"errors"

	"github.com/pls-team/pls-backend/internal/dao"
)

const usernameParameters = `{
	"type": "object",
	"properties": {
		"username": {
			"type": "string",
			"description": "The username of the user.",
			"minLength": 1,
			"maxLength": 255
		}
	},
	"required": ["username"],
	"additionalProperties": false
}`

const noLearningPathMessage = "No learning path found for the user"

type learningPathResult struct {
	LearningPathName string `json:"learning_path_name"`
}

func learningPathTool(paths LearningPathReader) *tool {
	return &tool{
		def: Definition{
			Name:        "get_learning_path",
			Description: "Retrieve the learning path name for a user.",
			Parameters:  []byte(usernameParameters),
		},
		run: func(ctx context.Context, args map[string]any) (any, error) {
			username, err := usernameArg(args)
			if err != nil {
				return nil, err
			}

			path, err := paths.GetByUsername(ctx, username)
			if errors.Is(err, dao.ErrNotFound) {
				return nil, errors.New(noLearningPathMessage)
			}
			if err != nil {
				return nil, err
			}

			return learningPathResult{LearningPathName: path.LearningPathName}, nil
		},
	}
}
