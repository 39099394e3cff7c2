package platforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/providers"
	"streakd/internal/structures"

	json "github.com/goccy/go-json"
)

type contributionsResponse struct {
	Contributions json.RawMessage `json:"contributions"`
}

// GitHub reads the contribution calendar from a contributions API that
// returns the last year as an array of {date, count, level} records.
type GitHub struct {
	*client
	baseURL string
	token   string
}

func NewGitHub(conf structures.PlatformConfig, logger providers.Logger, metrics providers.MetricsProviderInterface) *GitHub {
	return &GitHub{
		client:  newClient(models.PlatformGitHub, conf, logger, metrics),
		baseURL: strings.TrimSuffix(conf.BaseURL, "/"),
		token:   conf.Token,
	}
}

func (g *GitHub) Platform() models.Platform {
	return models.PlatformGitHub
}

func (g *GitHub) FetchCalendar(ctx context.Context, username string) (calendar.RawCalendar, error) {
	reqURL := fmt.Sprintf("%s/v4/%s?y=last", g.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build github request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	body, err := g.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("github calendar for %s: %w", username, err)
	}

	var resp contributionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode github response: %w", err)
	}
	raw, err := calendar.ParseRaw(resp.Contributions)
	if err != nil {
		return nil, fmt.Errorf("github calendar for %s: %w", username, err)
	}
	return raw, nil
}
