package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/metrics"
)

const sweepTimeout = 30 * time.Second

// Sweeper flips scheduled and expired links and purges stale verification codes.
type Sweeper struct {
	links  repositories.LinkRepository
	tokens repositories.VerificationTokenRepository
	clock  clock.Clock
	log    *zap.Logger
}

func NewSweeper(links repositories.LinkRepository, tokens repositories.VerificationTokenRepository, clk clock.Clock, log *zap.Logger) *Sweeper {
	return &Sweeper{links: links, tokens: tokens, clock: clk, log: log.Named("sweeper")}
}

// RunOnce executes every step; a failing step does not stop the others.
func (s *Sweeper) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, sweepTimeout)
	defer cancel()

	now := s.clock.Now()
	steps := []struct {
		name string
		run  func(context.Context, time.Time) (int64, error)
	}{
		{"activate_scheduled", s.links.ActivateScheduled},
		{"deactivate_expired", s.links.DeactivateExpired},
		{"delete_expired_tokens", s.tokens.DeleteExpired},
	}

	var err error
	for _, step := range steps {
		rows, stepErr := step.run(ctx, now)
		if stepErr != nil {
			s.log.Error("sweep step failed", zap.String("step", step.name), zap.Error(stepErr))
			err = errors.Join(err, fmt.Errorf("%s: %w", step.name, stepErr))
			continue
		}
		metrics.RecordSweep(step.name, rows)
		if rows > 0 {
			s.log.Info("sweep step done", zap.String("step", step.name), zap.Int64("rows", rows))
		}
	}
	return err
}

// Register schedules the sweeper on cfg.SweepSchedule for the app lifetime.
func Register(lc fx.Lifecycle, cfg config.Config, sweeper *Sweeper, log *zap.Logger) error {
	c := cron.New(cron.WithLogger(cron.DiscardLogger))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := c.AddFunc(cfg.SweepSchedule, func() {
		_ = sweeper.RunOnce(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid sweep schedule %q: %w", cfg.SweepSchedule, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			log.Info("link sweep scheduled", zap.String("schedule", cfg.SweepSchedule))
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-c.Stop().Done():
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return nil
}
