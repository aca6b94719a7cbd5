package service

import (
	"context"
	"time"

	"greenhouse_dashboard/internal/logger"

	"github.com/go-co-op/gocron"
)

const (
	defaultPollInterval = 2 * time.Second
	pollTimeout         = 30 * time.Second
)

// PollerService drives the series caches on a fixed interval so dashboard
// reads hit warm data. A failed fetch is logged and dropped; by the cache's
// boundary policy the next tick starts past the failed window, so there is
// no retry at this layer either.
type PollerService struct {
	gh       Greenhouse
	sched    *gocron.Scheduler
	interval time.Duration
	log      *logger.Logger
}

func NewPollerService(gh Greenhouse, interval time.Duration, log *logger.Logger) *PollerService {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &PollerService{
		gh:       gh,
		sched:    gocron.NewScheduler(time.UTC),
		interval: interval,
		log:      log,
	}
}

// Start schedules the periodic fetch job and runs the scheduler in the
// background.
func (p *PollerService) Start() error {
	if _, err := p.sched.Every(p.interval).Do(p.pollOnce); err != nil {
		return err
	}
	p.sched.StartAsync()
	return nil
}

// Stop halts the scheduler; a tick already running finishes on its own.
func (p *PollerService) Stop() {
	p.sched.Stop()
}

func (p *PollerService) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"temperature", func(ctx context.Context) error { _, err := p.gh.Temperature(ctx); return err }},
		{"humidity", func(ctx context.Context) error { _, err := p.gh.Humidity(ctx); return err }},
		{"fan", func(ctx context.Context) error { _, err := p.gh.Fan(ctx); return err }},
		{"water", func(ctx context.Context) error { _, err := p.gh.Water(ctx); return err }},
		{"logs", func(ctx context.Context) error { _, err := p.gh.Logs(ctx); return err }},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			if p.log != nil {
				p.log.Warnw("poll_fetch_failed", "series", step.name, "err", err)
			}
		}
	}
}
