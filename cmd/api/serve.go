package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadp "eduloan-backend/internal/adapter/http"
	"eduloan-backend/internal/adapter/middleware"
	"eduloan-backend/internal/adapter/repository/mysql"
	ucLoan "eduloan-backend/internal/usecase/loanrequest"
	ucNotif "eduloan-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func serveCmd(envDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*envDir)
		},
	}
}

func runServe(envDir string) error {
	a, err := loadApp(envDir)
	if err != nil {
		return err
	}
	if err := a.cfg.ValidateAPI(); err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.openDB(); err != nil {
		return err
	}
	if err := a.openRedis(ctx); err != nil {
		return err
	}
	producer, _, _, err := a.notificationQueue()
	if err != nil {
		return err
	}
	dispatcher := ucNotif.NewDispatcher(producer, a.log)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			a.log.Warn("notification queue close", slog.Any("err", err))
		}
	}()

	requests := mysql.NewLoanRequestRepository(a.db)
	nbfcs := mysql.NewNBFCRepository(a.db)
	loanUC := ucLoan.NewUsecase(ucLoan.Deps{
		Requests: requests,
		NBFCs:    nbfcs,
		Analyses: mysql.NewAnalysisRepository(a.db),
		Students: mysql.NewStudentRepository(a.db),
		Admins:   mysql.NewAdminRepository(a.db),
		UoW:      mysql.NewGormUoW(a.db),
		Notifier: dispatcher,
		Log:      a.log,
	})
	notifUC := ucNotif.NewUsecase(mysql.NewNotificationRepository(a.db))

	e := newEcho(a.log)
	httpadp.Register(e, httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": func(ctx context.Context) error {
				sqlDB, err := a.db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() },
		}),
		LoanRequests:  httpadp.NewLoanRequestHandler(loanUC, a.log),
		Notifications: httpadp.NewNotificationHandler(notifUC, a.log),
		JWTSecret:     []byte(a.cfg.JWTSecret),
		Idempotency:   middleware.Idempotency(a.rdb, a.cfg.IdempotencyTTL(), a.log),
	})

	errc := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.AppPort
		a.log.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	// inside the logger so recovered panics are logged with their 500
	e.Use(echomw.Recover())
	return e
}
