// Package scheduler runs the two background consistency jobs: purging
// expired unconfirmed registrations and refreshing the exchange-rate cache.
// The jobs share nothing but the store; each run holds its own transaction.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/service"
)

// Scheduler fires the recurring jobs at their configured intervals.
type Scheduler struct {
	cron  *cron.Cron
	users *service.UserService
	rates *service.RateService
	log   *logrus.Logger
	cfg   *config.Config
	done  chan struct{}
}

// New initializes a new scheduler
func New(users *service.UserService, rates *service.RateService,
	log *logrus.Logger, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		users: users,
		rates: rates,
		log:   log,
		cfg:   cfg,
		done:  make(chan struct{}),
	}
}

// Start launches the jobs after the configured initial delay: each runs
// once, then repeats at its own interval. Job failures are logged and never
// stop the loop.
func (s *Scheduler) Start() {
	go func() {
		select {
		case <-time.After(s.cfg.SchedulerDelay):
		case <-s.done:
			return
		}
		s.runPurge()
		s.runRates()

		s.cron.Schedule(cron.Every(s.cfg.PurgeInterval), cron.FuncJob(s.runPurge))
		s.cron.Schedule(cron.Every(s.cfg.RatesInterval), cron.FuncJob(s.runRates))
		s.cron.Start()
	}()
}

// Stop halts the schedule, including a Start still waiting out its initial
// delay; running jobs finish their current transaction.
func (s *Scheduler) Stop() {
	close(s.done)
	s.cron.Stop()
}

func (s *Scheduler) runPurge() {
	deleted, err := s.users.PurgeExpired(time.Now())
	if err != nil {
		s.log.Errorf("Registration purge failed: %v", err)
		return
	}
	if deleted > 0 {
		s.log.Infof("Registration purge removed %d expired account(s)", deleted)
	}
}

func (s *Scheduler) runRates() {
	if err := s.rates.Refresh(); err != nil {
		s.log.Errorf("Exchange-rate refresh failed, keeping cached rates: %v", err)
	}
}
