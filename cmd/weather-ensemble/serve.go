package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-ensemble/internal/api/http"
	"github.com/i474232898/weather-ensemble/internal/scheduler"
	"github.com/i474232898/weather-ensemble/internal/weather"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the auto-refresh scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	a, err := build()
	if err != nil {
		return err
	}
	defer a.close()

	// Scheduler that periodically refreshes the ensemble.
	sched := scheduler.New(a.service, a.log)
	if err := sched.Start(a.cfg.Settings); err != nil {
		return err
	}
	defer sched.Stop()

	// Populate the first result without waiting a full interval.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := a.service.Refresh(ctx); err != nil && !errors.Is(err, weather.ErrNoProvidersAvailable) {
			a.log.WithError(err).Warn("initial refresh failed")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               "weather-ensemble",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-ensemble",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, a.service, a.store, sched)

	go func() {
		a.log.WithField("port", a.cfg.Port).Info("http server listening")
		if err := app.Listen(":" + a.cfg.Port); err != nil {
			a.log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.WithError(err).Error("error during shutdown")
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
