package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes expired links and reports how many were deleted.
type Sweeper interface {
	ReapExpired(ctx context.Context) (int64, error)
}

// Reaper periodically sweeps expired links that were never visited again.
type Reaper struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger
}

func New(sweeper Sweeper, interval time.Duration) *Reaper {
	return &Reaper{
		sweeper:  sweeper,
		interval: interval,
		logger:   zap.L().With(zap.String("component", "Reaper")),
	}
}

// Run sweeps once per interval until ctx is cancelled. Sweep failures are
// logged and the next tick tries again.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("expiry reaper started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("expiry reaper stopped")
			return nil
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	deleted, err := r.sweeper.ReapExpired(sweepCtx)
	if err != nil {
		r.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		r.logger.Info("expired links removed", zap.Int64("count", deleted))
	}
}
