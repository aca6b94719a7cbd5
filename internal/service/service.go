package service

import (
	"context"
	"time"

	"greenhouse_dashboard/internal/config"
	"greenhouse_dashboard/internal/logger"
	"greenhouse_dashboard/internal/models"
	"greenhouse_dashboard/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (*models.User, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// UpstreamAPI is the slice of the greenhouse API client the facade needs.
type UpstreamAPI interface {
	Status(ctx context.Context) (map[string]any, error)
	Latest(ctx context.Context, stat models.StatType) (map[string]any, error)
	Logs(ctx context.Context, level models.LogLevel, start, end time.Time) ([]models.LogRecord, error)
	History(ctx context.Context, stat models.StatType, start, end time.Time) ([]models.TimeseriesRecord, error)
}

// Greenhouse exposes one fetch entry point per series plus the uncached
// status/latest passthroughs and the reset operations.
type Greenhouse interface {
	StatusNow(ctx context.Context) (map[string]any, error)
	LatestOf(ctx context.Context, stat models.StatType) (map[string]any, error)

	Logs(ctx context.Context) ([]models.LogRecord, error)
	Temperature(ctx context.Context) ([]models.TimeseriesRecord, error)
	Humidity(ctx context.Context) ([]models.TimeseriesRecord, error)
	Fan(ctx context.Context) ([]models.TimeseriesRecord, error)
	Water(ctx context.Context) ([]models.TimeseriesRecord, error)

	ResetLogs(level models.LogLevel, lookupDays int)
	ResetStats(lookupDays int)
	SeriesState() map[string]SeriesInfo
}

// Poller keeps the series caches warm by fetching on a fixed interval.
type Poller interface {
	Start() error
	Stop()
}

// Service aggregates all sub-services.
type Service struct {
	Greenhouse
	Authorization
	Poller
}

// NewService wires the repository layer and upstream client into concrete
// services.
func NewService(repos *repository.Repository, api UpstreamAPI, cfg *config.Config, log *logger.Logger) *Service {
	gh := NewGreenhouseService(api, cfg.Lookup.LogLevel, cfg.Lookup.StatDays, cfg.Lookup.LogDays)
	return &Service{
		Greenhouse:    gh,
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Poller:        NewPollerService(gh, cfg.Poll.Interval, log),
	}
}
