// Package sweeper runs the periodic ledger jobs: auto release, hold expiry, transfer retries and
// trust level recomputation.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultInterval      = time.Minute
	defaultTrustInterval = time.Hour
	defaultJobTimeout    = 2 * time.Minute
)

type Jobs struct {
	Release   AutoReleaser
	Escrow    HoldReleaser
	Transfers TransferRetrier
	Sellers   TrustRecomputer
}

// Sweeper ticks every interval. Trust levels are recomputed on the first tick and then every trustInterval.
type Sweeper struct {
	jobs          Jobs
	l             *logrus.Entry
	interval      time.Duration
	trustInterval time.Duration
	limit         uint
	lastTrust     time.Time
	now           func() time.Time
}

func New(jobs Jobs, l *logrus.Logger) *Sweeper {
	return &Sweeper{
		jobs: jobs,
		l: l.WithFields(logrus.Fields{
			"component": "sweeper",
			"module":    "sweeper",
		}),
		interval:      defaultInterval,
		trustInterval: defaultTrustInterval,
		now:           time.Now,
	}
}

func (s *Sweeper) SetInterval(interval time.Duration) *Sweeper {
	if interval > 0 {
		s.interval = interval
	}
	return s
}

func (s *Sweeper) SetTrustInterval(interval time.Duration) *Sweeper {
	if interval > 0 {
		s.trustInterval = interval
	}
	return s
}

// SetLimit bounds the rows a single job handles per tick. Zero keeps each service's default.
func (s *Sweeper) SetLimit(limit uint) *Sweeper {
	s.limit = limit
	return s
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.l.WithFields(logrus.Fields{
		"interval":      s.interval,
		"trustInterval": s.trustInterval,
	}).Info("Starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.sweep(ctx); err != nil {
			s.l.WithError(err).Error("sweep error")
		}
		select {
		case <-ctx.Done():
			s.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
		}
	}
}

// sweep runs every job once. A failing job does not stop the following ones.
func (s *Sweeper) sweep(ctx context.Context) error {
	var errs []error

	if err := s.runAutoRelease(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.runHoldRelease(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.runTransferRetries(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.lastTrust.IsZero() || s.now().Sub(s.lastTrust) >= s.trustInterval {
		if err := s.runTrustRecompute(ctx); err != nil {
			errs = append(errs, err)
		} else {
			s.lastTrust = s.now()
		}
	}
	return errors.Join(errs...)
}

func (s *Sweeper) runAutoRelease(ctx context.Context) error {
	jobCtx, cancel := context.WithTimeout(ctx, defaultJobTimeout)
	defer cancel()

	report, err := s.jobs.Release.RunAutoReleaseSweep(jobCtx, s.limit)
	if err != nil {
		return fmt.Errorf("auto release: %w", err)
	}
	for _, failure := range report.Failures {
		s.l.WithError(failure.Err).WithField("itemID", failure.ItemID).Warn("auto release failed")
	}
	if report.Processed > 0 {
		s.l.WithFields(logrus.Fields{
			"processed": report.Processed,
			"released":  report.Released,
			"skipped":   report.Skipped,
			"failed":    len(report.Failures),
		}).Info("auto release sweep")
	}
	return nil
}

func (s *Sweeper) runHoldRelease(ctx context.Context) error {
	jobCtx, cancel := context.WithTimeout(ctx, defaultJobTimeout)
	defer cancel()

	report, err := s.jobs.Escrow.ReleaseDueHolds(jobCtx, s.limit)
	if err != nil {
		return fmt.Errorf("hold release: %w", err)
	}
	for _, failure := range report.Failures {
		s.l.WithError(failure.Err).WithField("transactionID", failure.TransactionID).Warn("hold release failed")
	}
	if report.Released > 0 || len(report.Failures) > 0 {
		s.l.WithFields(logrus.Fields{
			"released": report.Released,
			"skipped":  report.Skipped,
			"failed":   len(report.Failures),
		}).Info("hold release sweep")
	}
	return nil
}

func (s *Sweeper) runTransferRetries(ctx context.Context) error {
	jobCtx, cancel := context.WithTimeout(ctx, defaultJobTimeout)
	defer cancel()

	failures, err := s.jobs.Transfers.RetryPendingTransfers(jobCtx, s.limit)
	if err != nil {
		return fmt.Errorf("transfer retries: %w", err)
	}
	for _, failure := range failures {
		s.l.WithError(failure.Err).WithField("orderID", failure.OrderID).Warn("transfer retry failed")
	}
	return nil
}

func (s *Sweeper) runTrustRecompute(ctx context.Context) error {
	jobCtx, cancel := context.WithTimeout(ctx, defaultJobTimeout)
	defer cancel()

	changed, err := s.jobs.Sellers.RecomputeTrustLevels(jobCtx)
	if err != nil {
		return fmt.Errorf("trust recompute: %w", err)
	}
	s.l.WithField("changed", changed).Info("trust levels recomputed")
	return nil
}
