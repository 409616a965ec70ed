package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"eduloan-backend/internal/adapter/repository/mysql"
	"eduloan-backend/internal/config"
	"eduloan-backend/internal/infrastructure/queue"
	ucNotif "eduloan-backend/internal/usecase/notification"

	"github.com/spf13/cobra"
)

func workerCmd(envDir *string) *cobra.Command {
	var promoteSpec string
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume notification jobs and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(*envDir, promoteSpec)
		},
	}
	cmd.Flags().StringVar(&promoteSpec, "promote-every", "@every 1s", "cron spec for moving due retries back to the queue (redis driver)")
	return cmd
}

func runWorker(envDir, promoteSpec string) error {
	a, err := loadApp(envDir)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.openDB(); err != nil {
		return err
	}
	if a.cfg.QueueDriver == config.QueueRedis {
		if err := a.openRedis(ctx); err != nil {
			return err
		}
	}
	producer, consumer, rq, err := a.notificationQueue()
	if err != nil {
		return err
	}
	defer func() {
		if err := producer.Close(); err != nil {
			a.log.Warn("notification queue close", slog.Any("err", err))
		}
	}()

	if rq != nil {
		m := queue.NewMaintainer(rq, a.log, promoteSpec)
		if err := m.Start(); err != nil {
			return err
		}
		defer func() { <-m.Stop().Done() }()
	}

	w := ucNotif.NewWorker(mysql.NewNotificationRepository(a.db), a.log)
	a.log.Info("worker started",
		slog.String("queue", a.cfg.NotificationQueue),
		slog.String("driver", a.cfg.QueueDriver),
		slog.Int("concurrency", a.cfg.WorkerConcurrency),
	)
	err = consumer.Consume(ctx, w.Handle)
	a.log.Info("worker stopped")
	return err
}
