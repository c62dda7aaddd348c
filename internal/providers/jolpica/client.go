package jolpica

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public jolpica-f1 mirror of the Ergast API.
	DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"
)

// Client fetches historical F1 classifications: schedules plus race, sprint,
// and qualifying results back to 1950. It replaces the original stack's
// session-loading library as the engine's result source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New creates a results API client. An empty baseURL uses the public mirror.
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
	}
}

// Schedule fetches the full calendar for a season.
func (c *Client) Schedule(ctx context.Context, year int) ([]Race, error) {
	url := fmt.Sprintf("%s/%d.json?limit=100", c.baseURL, year)
	return c.fetchRaces(ctx, url)
}

// RaceResults fetches the classified race result for one round.
func (c *Client) RaceResults(ctx context.Context, year, round int) ([]Result, error) {
	url := fmt.Sprintf("%s/%d/%d/results.json?limit=100", c.baseURL, year, round)
	return c.fetchRoundResults(ctx, url, func(r Race) []Result { return r.Results })
}

// SprintResults fetches the sprint classification for one round. Rounds
// without a sprint return an empty slice.
func (c *Client) SprintResults(ctx context.Context, year, round int) ([]Result, error) {
	url := fmt.Sprintf("%s/%d/%d/sprint.json?limit=100", c.baseURL, year, round)
	return c.fetchRoundResults(ctx, url, func(r Race) []Result { return r.SprintResults })
}

// QualifyingResults fetches the qualifying classification for one round.
func (c *Client) QualifyingResults(ctx context.Context, year, round int) ([]Result, error) {
	url := fmt.Sprintf("%s/%d/%d/qualifying.json?limit=100", c.baseURL, year, round)
	return c.fetchRoundResults(ctx, url, func(r Race) []Result { return r.QualifyingResults })
}

func (c *Client) fetchRaces(ctx context.Context, url string) ([]Race, error) {
	var env envelope
	if err := c.fetch(ctx, url, &env); err != nil {
		return nil, err
	}
	if env.MRData.RaceTable == nil {
		return nil, nil
	}
	return env.MRData.RaceTable.Races, nil
}

func (c *Client) fetchRoundResults(ctx context.Context, url string, pick func(Race) []Result) ([]Result, error) {
	races, err := c.fetchRaces(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(races) == 0 {
		return nil, nil
	}
	return pick(races[0]), nil
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
		return fmt.Errorf("results API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
