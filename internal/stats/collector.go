package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Counter is satisfied by both the user and the trade repository.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Collector refreshes the users_registered and trades_recorded gauges on a
// cron schedule.
type Collector struct {
	users    Counter
	trades   Counter
	schedule cron.Schedule
	logger   *slog.Logger
}

func NewCollector(users, trades Counter, expr string, logger *slog.Logger) (*Collector, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse stats schedule %q: %w", expr, err)
	}
	return &Collector{
		users:    users,
		trades:   trades,
		schedule: schedule,
		logger:   logger.With("component", "stats"),
	}, nil
}

// Start collects once immediately and then on every scheduled tick until
// ctx is cancelled.
func (c *Collector) Start(ctx context.Context) {
	c.logger.Info("stats collector started")
	c.Collect(ctx)

	for {
		timer := time.NewTimer(time.Until(c.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("stats collector shut down")
			return
		case <-timer.C:
			c.Collect(ctx)
		}
	}
}

func (c *Collector) Collect(ctx context.Context) {
	if n, err := c.users.Count(ctx); err != nil {
		c.logger.ErrorContext(ctx, "count users", "error", err)
	} else {
		metrics.UsersRegistered.Set(float64(n))
	}

	if n, err := c.trades.Count(ctx); err != nil {
		c.logger.ErrorContext(ctx, "count trades", "error", err)
	} else {
		metrics.TradesRecorded.Set(float64(n))
	}
}
