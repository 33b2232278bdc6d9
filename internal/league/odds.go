package league

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// OddsClient pulls next-week win probabilities per team. Projections
// are optional flavor: callers treat a failed fetch as "no projections"
// rather than a failed run.
type OddsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOddsClient(baseURL, apiKey string) *OddsClient {
	return &OddsClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the provider is configured.
func (c *OddsClient) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type projectionRow struct {
	TeamID    string  `json:"team_id"`
	Projected float64 `json:"projected_points"`
}

// Projections returns next-week projected points keyed by team ID.
func (c *OddsClient) Projections(ctx context.Context, week int) (map[string]float64, error) {
	if !c.Enabled() {
		return nil, nil
	}

	q := url.Values{}
	q.Set("week", fmt.Sprintf("%d", week))
	endpoint := fmt.Sprintf("%s/v1/projections?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build projections request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch projections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch projections: odds API returned %d", resp.StatusCode)
	}

	var rows []projectionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode projections: %w", err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.TeamID] = row.Projected
	}
	return out, nil
}
