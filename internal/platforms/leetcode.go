package platforms

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/structures"

	json "github.com/goccy/go-json"
)

const leetCodeCalendarQuery = `query userProfileCalendar($username: String!) {
  matchedUser(username: $username) {
    userCalendar {
      submissionCalendar
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type leetCodeResponse struct {
	Data struct {
		MatchedUser *struct {
			UserCalendar struct {
				SubmissionCalendar json.RawMessage `json:"submissionCalendar"`
			} `json:"userCalendar"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// LeetCode reads the submission calendar from the public GraphQL endpoint.
// The calendar arrives as a JSON string of Unix-second keys.
type LeetCode struct {
	*client
	url string
}

func NewLeetCode(conf structures.PlatformConfig, logger providers.Logger, metrics providers.MetricsProviderInterface) *LeetCode {
	return &LeetCode{
		client: newClient(models.PlatformLeetCode, conf, logger, metrics),
		url:    conf.BaseURL,
	}
}

func (l *LeetCode) Platform() models.Platform {
	return models.PlatformLeetCode
}

func (l *LeetCode) FetchCalendar(ctx context.Context, username string) (calendar.RawCalendar, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     leetCodeCalendarQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build leetcode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com/"+username+"/")

	body, err := l.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("leetcode calendar for %s: %w", username, err)
	}

	var resp leetCodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode leetcode response: %w", err)
	}
	if resp.Data.MatchedUser == nil {
		if len(resp.Errors) > 0 {
			l.logger.Debugf(providers.TypeFetch, "leetcode %s: %s", username, resp.Errors[0].Message)
		}
		return nil, fmt.Errorf("leetcode calendar for %s: %w", username, ErrUserNotFound)
	}

	raw, err := calendar.ParseRaw(resp.Data.MatchedUser.UserCalendar.SubmissionCalendar)
	if err != nil {
		return nil, fmt.Errorf("leetcode calendar for %s: %w", username, err)
	}
	return raw, nil
}
