package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Maintainer runs the periodic upkeep of a RedisQueue.
type Maintainer struct {
	cron   *cron.Cron
	q      *RedisQueue
	logger *slog.Logger
	spec   string
}

// NewMaintainer schedules delayed-job promotion and the reclaiming of jobs
// held by expired consumers; spec defaults to every second.
func NewMaintainer(q *RedisQueue, logger *slog.Logger, spec string) *Maintainer {
	if spec == "" {
		spec = "@every 1s"
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	return &Maintainer{cron: c, q: q, logger: logger, spec: spec}
}

func (m *Maintainer) Start() error {
	if _, err := m.cron.AddFunc(m.spec, m.promote); err != nil {
		m.logger.Error("failed to schedule delayed job promotion", "error", err)
		return err
	}
	m.logger.Info("scheduled delayed job promotion", "schedule", m.spec, "queue", m.q.name)
	m.cron.Start()
	return nil
}

// Stop returns a context that is done once a running promotion finishes.
func (m *Maintainer) Stop() context.Context {
	return m.cron.Stop()
}

func (m *Maintainer) promote() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := m.q.PromoteDelayed(ctx)
	if err != nil {
		m.logger.Error("promote delayed jobs", "queue", m.q.name, "error", err)
		return
	}
	if n > 0 {
		m.logger.Debug("promoted delayed jobs", "queue", m.q.name, "count", n)
	}
	r, err := m.q.ReclaimExpired(ctx)
	if err != nil {
		m.logger.Error("reclaim expired consumers", "queue", m.q.name, "error", err)
		return
	}
	if r > 0 {
		m.logger.Warn("requeued jobs of expired consumers", "queue", m.q.name, "count", r)
	}
}
