package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/paddock/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	// CurrentSeasonTTL keeps in-progress seasons fresh; a scheduled refresh
	// rewrites the key well before it expires.
	CurrentSeasonTTL = 30 * time.Minute

	// HistoricSeasonTTL covers completed seasons, whose standings never
	// change outside a backfill.
	HistoricSeasonTTL = 30 * 24 * time.Hour
)

// ReportCache stores computed season reports in Redis so repeat requests skip
// the full standings recomputation.
type ReportCache struct {
	client *redis.Client
}

// NewReportCache creates a new report cache over an existing Redis client.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{
		client: client,
	}
}

func reportKey(year int) string {
	return fmt.Sprintf("standings:report:%d", year)
}

// WriteReport stores a season report with a TTL based on whether the season
// is still running.
func (c *ReportCache) WriteReport(ctx context.Context, report *models.SeasonReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	ttl := HistoricSeasonTTL
	if report.Year >= time.Now().UTC().Year() {
		ttl = CurrentSeasonTTL
	}

	return c.client.Set(ctx, reportKey(report.Year), data, ttl).Err()
}

// ReadReport retrieves a cached season report. Returns redis.Nil (wrapped)
// when the year has not been cached.
func (c *ReportCache) ReadReport(ctx context.Context, year int) (*models.SeasonReport, error) {
	data, err := c.client.Get(ctx, reportKey(year)).Result()
	if err != nil {
		return nil, err
	}

	var report models.SeasonReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("unmarshaling report: %w", err)
	}

	return &report, nil
}

// Invalidate drops a cached report, typically after an ingest run touches the
// year.
func (c *ReportCache) Invalidate(ctx context.Context, year int) error {
	return c.client.Del(ctx, reportKey(year)).Err()
}
