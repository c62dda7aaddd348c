package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is ESPN's core racing API root.
	DefaultBaseURL = "https://sports.core.api.espn.com/v2/sports/racing"
)

// Client handles ESPN F1 API requests. It supplies display metadata (driver
// headshots, team logos and colors) that the results provider lacks.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	language   string
	region     string
}

// New creates a new ESPN API client. An empty baseURL uses the production
// endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; PaddockBot/1.0)",
		language:  "en",
		region:    "us",
	}
}

// FetchSeasonAthletes fetches the driver roster refs for a season.
func (c *Client) FetchSeasonAthletes(ctx context.Context, year int) (*ListResponse, error) {
	url := fmt.Sprintf("%s/leagues/f1/seasons/%d/athletes?lang=%s&region=%s&limit=100",
		c.baseURL, year, c.language, c.region)

	var list ListResponse
	if err := c.fetch(ctx, url, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FetchDriverStandings fetches the season's driver championship standings.
func (c *Client) FetchDriverStandings(ctx context.Context, year int) (*StandingsResponse, error) {
	url := fmt.Sprintf("%s/leagues/f1/seasons/%d/types/2/standings/0?lang=%s&region=%s",
		c.baseURL, year, c.language, c.region)

	var standings StandingsResponse
	if err := c.fetch(ctx, url, &standings); err != nil {
		return nil, err
	}
	return &standings, nil
}

// FetchConstructorStandings fetches the season's constructor championship
// standings. Each entry links its manufacturer profile, which carries the
// team's logos and color.
func (c *Client) FetchConstructorStandings(ctx context.Context, year int) (*StandingsResponse, error) {
	url := fmt.Sprintf("%s/leagues/f1/seasons/%d/types/2/standings/1?lang=%s&region=%s",
		c.baseURL, year, c.language, c.region)

	var standings StandingsResponse
	if err := c.fetch(ctx, url, &standings); err != nil {
		return nil, err
	}
	return &standings, nil
}

// FetchRef follows a $ref link into the given target.
func (c *Client) FetchRef(ctx context.Context, ref Ref, target interface{}) error {
	return c.fetch(ctx, ref.Ref, target)
}

// fetch makes an HTTP GET request and decodes the JSON response into target.
func (c *Client) fetch(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
