package tools

import (
	"context"
	"time"

	"github.com/pls-team/pls-backend/internal/database"
	"github.com/pls-team/pls-backend/pkg/utils"
)

func userDataTool(profiles ProfileReader) *tool {
	return &tool{
		def: Definition{
			Name:        "get_user_data",
			Description: "Retrieve the ERP profile, completed courses and performance ratings of a user.",
			Parameters:  []byte(usernameParameters),
		},
		run: func(ctx context.Context, args map[string]any) (any, error) {
			username, err := usernameArg(args)
			if err != nil {
				return nil, err
			}

			profile, err := profiles.GetProfile(ctx, username)
			if err != nil {
				return nil, err
			}

			profile.CourseCompletions = formatDates(profile.CourseCompletions, "completion_date")
			return profile, nil
		},
	}
}

// formatDates renders the time values of the given columns as calendar dates
func formatDates(rows []database.Row, columns ...string) []database.Row {
	out := make([]database.Row, len(rows))
	for i, row := range rows {
		values := append([]any(nil), row.Values...)
		for j, col := range row.Columns {
			for _, want := range columns {
				if col != want {
					continue
				}
				if t, ok := values[j].(time.Time); ok {
					values[j] = utils.FormatDate(t)
				}
			}
		}
		out[i] = database.Row{Columns: append([]string(nil), row.Columns...), Values: values}
	}
	return out
}
