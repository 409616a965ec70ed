package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"eduloan-backend/internal/config"
	"eduloan-backend/internal/infrastructure/cache"
	"eduloan-backend/internal/infrastructure/db"
	"eduloan-backend/internal/infrastructure/logging"
	"eduloan-backend/internal/infrastructure/queue"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app holds what every subcommand opens. Nil fields were not requested.
type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
	rdb *redis.Client
}

func loadApp(envDir string) (*app, error) {
	cfg, err := config.Load(envDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) openDB() error {
	gdb, err := db.OpenGorm(a.cfg.DBDriver, a.cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = gdb
	return nil
}

func (a *app) openRedis(ctx context.Context) error {
	rdb, err := cache.OpenRedis(ctx, cache.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPass,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	a.rdb = rdb
	return nil
}

func (a *app) queueOptions() queue.Options {
	return queue.Options{
		MaxAttempts: a.cfg.JobMaxAttempts,
		Backoff:     a.cfg.JobBackoff(),
		Concurrency: a.cfg.WorkerConcurrency,
	}
}

// notificationQueue returns the configured queue. The redis variant is also
// returned on its own so the worker can run its maintainer.
func (a *app) notificationQueue() (queue.Producer, queue.Consumer, *queue.RedisQueue, error) {
	switch a.cfg.QueueDriver {
	case config.QueueAMQP:
		q, err := queue.DialAMQP(a.cfg.RabbitMQURL, a.cfg.NotificationQueue, a.queueOptions(), a.log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("dial amqp: %w", err)
		}
		return q, q, nil, nil
	default:
		q := queue.NewRedisQueue(a.rdb, a.cfg.NotificationQueue, a.queueOptions(), a.log)
		return q, q, q, nil
	}
}

func (a *app) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("redis close", slog.Any("err", err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Warn("database close", slog.Any("err", err))
			}
		}
	}
}

const shutdownTimeout = 10 * time.Second
