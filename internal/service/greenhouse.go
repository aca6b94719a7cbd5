package service

import (
	"context"
	"sync"
	"time"

	"greenhouse_dashboard/internal/lookup"
	"greenhouse_dashboard/internal/models"
)

// Sensors reporting scaled integers upstream: temperature and humidity
// arrive in tenths of their display unit; fan and water are raw counts.
func displayScale(stat models.StatType) float64 {
	switch stat {
	case models.StatTemperature, models.StatHumidity:
		return 10
	default:
		return 1
	}
}

// SeriesInfo is a per-series cache snapshot for the ops surface.
type SeriesInfo struct {
	Len     int    `json:"len"`
	LastEnd string `json:"last_end,omitempty"`
}

// GreenhouseService owns the upstream client and five independent lookup
// caches: one per sensor series plus one for logs. Resetting a series
// discards its cache instance wholesale; a fetch still in flight on the
// discarded instance finishes against the orphan and its result is never
// observed.
type GreenhouseService struct {
	api UpstreamAPI

	// mu guards the cache pointers only; fetches run outside it so one
	// slow series cannot stall resets or the other series.
	mu    sync.RWMutex
	logs  *lookup.Cache[models.LogRecord]
	stats map[models.StatType]*lookup.Cache[models.TimeseriesRecord]

	logLevel models.LogLevel
}

func NewGreenhouseService(api UpstreamAPI, logLevel models.LogLevel, statDays, logDays int) *GreenhouseService {
	g := &GreenhouseService{
		api:   api,
		stats: make(map[models.StatType]*lookup.Cache[models.TimeseriesRecord], 4),
	}
	g.ResetLogs(logLevel, logDays)
	g.ResetStats(statDays)
	return g
}

// StatusNow returns the upstream status payload, uncached.
func (g *GreenhouseService) StatusNow(ctx context.Context) (map[string]any, error) {
	return g.api.Status(ctx)
}

// LatestOf returns the upstream latest reading for stat, uncached.
func (g *GreenhouseService) LatestOf(ctx context.Context, stat models.StatType) (map[string]any, error) {
	return g.api.Latest(ctx, stat)
}

func (g *GreenhouseService) Logs(ctx context.Context) ([]models.LogRecord, error) {
	g.mu.RLock()
	c := g.logs
	g.mu.RUnlock()
	return c.Fetch(ctx)
}

func (g *GreenhouseService) Temperature(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return g.fetchStat(ctx, models.StatTemperature)
}

func (g *GreenhouseService) Humidity(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return g.fetchStat(ctx, models.StatHumidity)
}

func (g *GreenhouseService) Fan(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return g.fetchStat(ctx, models.StatFan)
}

func (g *GreenhouseService) Water(ctx context.Context) ([]models.TimeseriesRecord, error) {
	return g.fetchStat(ctx, models.StatWater)
}

func (g *GreenhouseService) fetchStat(ctx context.Context, stat models.StatType) ([]models.TimeseriesRecord, error) {
	g.mu.RLock()
	c := g.stats[stat]
	g.mu.RUnlock()
	return c.Fetch(ctx)
}

// ResetLogs replaces the log cache with a fresh instance bound to the new
// level and backfill window. The stat caches are untouched.
func (g *GreenhouseService) ResetLogs(level models.LogLevel, lookupDays int) {
	getter := g.logGetter(level)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logLevel = level
	g.logs = lookup.New(lookupDays, getter)
}

// ResetStats replaces all four stat caches with fresh instances using the
// new backfill window. The log cache is untouched.
func (g *GreenhouseService) ResetStats(lookupDays int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, stat := range models.StatTypes() {
		g.stats[stat] = lookup.New(lookupDays, g.statGetter(stat))
	}
}

// LogLevel reports the level the current log cache is bound to.
func (g *GreenhouseService) LogLevel() models.LogLevel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.logLevel
}

// SeriesState reports the size and boundary of every cache.
func (g *GreenhouseService) SeriesState() map[string]SeriesInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]SeriesInfo, len(g.stats)+1)
	out["logs"] = seriesInfo(g.logs.Len(), g.logs.LastEnd())
	for stat, c := range g.stats {
		out[stat.String()] = seriesInfo(c.Len(), c.LastEnd())
	}
	return out
}

func seriesInfo(n int, lastEnd time.Time) SeriesInfo {
	info := SeriesInfo{Len: n}
	if !lastEnd.IsZero() {
		info.LastEnd = models.FormatTime(lastEnd)
	}
	return info
}

func (g *GreenhouseService) logGetter(level models.LogLevel) lookup.Getter[models.LogRecord] {
	return func(ctx context.Context, start, end time.Time) ([]models.LogRecord, error) {
		return g.api.Logs(ctx, level, start, end)
	}
}

func (g *GreenhouseService) statGetter(stat models.StatType) lookup.Getter[models.TimeseriesRecord] {
	scale := displayScale(stat)
	return func(ctx context.Context, start, end time.Time) ([]models.TimeseriesRecord, error) {
		recs, err := g.api.History(ctx, stat, start, end)
		if err != nil {
			return nil, err
		}
		for i := range recs {
			recs[i].DisplayValue = recs[i].Value / scale
		}
		return recs, nil
	}
}
