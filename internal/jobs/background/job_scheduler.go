package background

import (
	"context"
	"sync"
	"time"

	"fieldtrack/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// JobScheduler owns the gocron scheduler and the registered periodic jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	alertService *jobs.StockAlertService
	interval     time.Duration
	expiryWindow time.Duration
	registered   map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(alertService *jobs.StockAlertService, interval, expiryWindow time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		alertService: alertService,
		interval:     interval,
		expiryWindow: expiryWindow,
		registered:   make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	alertJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(func() {
			if err := js.alertService.RunScheduledScan(context.Background(), js.expiryWindow); err != nil {
				log.Error().Err(err).Msg("stock alert scan failed")
			}
		}),
		gocron.WithName("stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	js.registered["stock-alerts"] = alertJob

	log.Info().Int("jobs", len(js.registered)).Msg("registered background jobs")
	return nil
}

func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames reports the registered job names, mainly for health endpoints.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.registered))
	for name := range js.registered {
		names = append(names, name)
	}
	return names
}
