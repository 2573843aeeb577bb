// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TokenPurger removes refresh tokens that expired before now.
type TokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler wraps robfig/cron and owns the housekeeping loop.
type Scheduler struct {
	cron   *cron.Cron
	tokens TokenPurger
	spec   string
	log    *zap.Logger

	now func() time.Time
}

func New(spec string, tokens TokenPurger, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		tokens: tokens,
		spec:   spec,
		log:    log.Named("scheduler"),
		now:    time.Now,
	}
}

// Start registers the purge job and starts cron. One purge runs right away so
// a long downtime does not leave stale tokens until the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.PurgeExpiredTokens(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info("cron started", zap.String("spec", s.spec))

	go s.PurgeExpiredTokens(ctx)
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info("cron stopped")
}

func (s *Scheduler) PurgeExpiredTokens(ctx context.Context) {
	n, err := s.tokens.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		s.log.Error("purge expired refresh tokens failed", zap.Error(err))
		return
	}
	s.log.Info("purged expired refresh tokens", zap.Int64("count", n))
}
