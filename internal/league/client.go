// Package league fetches weekly scoring data from the league platform
// API and win-probability projections from the odds provider.
package league

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/leagueroast/gazette/internal/narrative"
)

// Client pulls one league's weekly data over HTTP. Requests are made
// once per run with no retry; a failed fetch fails the build.
type Client struct {
	baseURL    string
	leagueID   string
	season     string
	httpClient *http.Client
}

func NewClient(baseURL, leagueID, season string) *Client {
	return &Client{
		baseURL:    baseURL,
		leagueID:   leagueID,
		season:     season,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchWeek retrieves the full scoring bundle for one week.
func (c *Client) FetchWeek(ctx context.Context, week int) (*narrative.WeekBundle, error) {
	q := url.Values{}
	q.Set("league_id", c.leagueID)
	q.Set("season", c.season)
	q.Set("week", fmt.Sprintf("%d", week))
	endpoint := fmt.Sprintf("%s/v1/weeks?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build week request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch week %d: %w", week, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch week %d: league API returned %d", week, resp.StatusCode)
	}

	var bundle narrative.WeekBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("decode week %d: %w", week, err)
	}
	if bundle.Season == "" {
		bundle.Season = c.season
	}
	if bundle.Week == 0 {
		bundle.Week = week
	}
	return &bundle, nil
}
