// Package sweeper deletes postings whose date has passed.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bulletin/internal/board"
	"bulletin/internal/metrics"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LeaseKey is the Redis key every sweeping process contends for.
const LeaseKey = "bulletin:sweep"

// LeaseOwner names this process as a lease holder: role, host and a random
// suffix so two processes on one host never share an owner.
func LeaseOwner(role string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown-host"
	}
	return fmt.Sprintf("%s/%s/%s", role, host, uuid.NewString())
}

// Purger is the part of the store the sweeper mutates.
type Purger interface {
	PurgeKirtansBefore(ctx context.Context, day string) (int64, error)
	PurgeBusSevasBefore(ctx context.Context, day string) (int64, error)
}

// Lease gates a sweep when several processes share one database.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
}

// Result describes one sweep.
type Result struct {
	Day      string
	Kirtans  int64
	BusSevas int64
	Skipped  bool
}

// Sweeper periodically purges kirtans and bus offers dated before today.
type Sweeper struct {
	store    Purger
	lease    Lease
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// Option customizes a Sweeper.
type Option func(*Sweeper)

// WithClock overrides the clock used to compute today.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// WithLease makes each sweep acquire l first and skip when it is held elsewhere.
func WithLease(l Lease) Option {
	return func(s *Sweeper) { s.lease = l }
}

// New creates a sweeper. interval defaults to one hour.
func New(store Purger, interval time.Duration, logger zerolog.Logger, m *metrics.Metrics, opts ...Option) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	s := &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger.With().Str("component", "sweeper").Logger(),
		metrics:  m,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce performs a single sweep. Both tables are attempted even if the first fails.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	res := Result{Day: board.Day(s.now())}

	if s.lease != nil {
		ok, err := s.lease.Acquire(ctx)
		if err != nil {
			return res, fmt.Errorf("acquire sweep lease: %w", err)
		}
		if !ok {
			res.Skipped = true
			return res, nil
		}
	}

	var errs []error
	n, err := s.store.PurgeKirtansBefore(ctx, res.Day)
	if err != nil {
		errs = append(errs, err)
	}
	res.Kirtans = n

	n, err = s.store.PurgeBusSevasBefore(ctx, res.Day)
	if err != nil {
		errs = append(errs, err)
	}
	res.BusSevas = n

	return res, errors.Join(errs...)
}

// Run sweeps immediately and then every interval until ctx is cancelled.
// A failed sweep is logged and reported; the next one runs on schedule.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("sweeper started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("sweep panic: %v", r)
			s.fail(err)
		}
	}()

	res, err := s.RunOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.fail(err)
		return
	}
	if res.Skipped {
		s.metrics.SweepRuns.WithLabelValues("skipped").Inc()
		s.logger.Debug().Str("day", res.Day).Msg("sweep lease held elsewhere")
		return
	}

	s.metrics.SweepRuns.WithLabelValues("ok").Inc()
	s.metrics.SweepPurged.WithLabelValues(board.TableKirtans).Add(float64(res.Kirtans))
	s.metrics.SweepPurged.WithLabelValues(board.TableBusSeva).Add(float64(res.BusSevas))
	s.metrics.SweepLastClean.SetToCurrentTime()
	s.logger.Info().
		Str("day", res.Day).
		Int64("kirtans", res.Kirtans).
		Int64("bus_seva", res.BusSevas).
		Msg("sweep completed")
}

func (s *Sweeper) fail(err error) {
	s.metrics.SweepRuns.WithLabelValues("error").Inc()
	s.logger.Error().Err(err).Msg("sweep failed")
	sentry.CaptureException(err)
}
