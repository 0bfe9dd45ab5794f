package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calctl/core/config"
	"calctl/core/logger"
	"calctl/core/middleware"
	"calctl/modules/agenda"
	backupservice "calctl/modules/backup/service"
	"calctl/modules/event"
	"calctl/modules/event/repository"
	"calctl/modules/ics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

// Run starts the REST API over the configured event store and blocks until
// SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	repo, closeRepo, err := repository.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mw := middleware.New(cfg)
	e.Use(echomw.Recover())
	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	event.Init(e, repo, mw)
	agenda.Init(e, cfg, repo, mw)
	ics.Init(e, cfg, repo, mw)

	// Scheduled backups only run while the server is up; one-shot CLI
	// invocations use `calctl backup` instead.
	var scheduler *cron.Cron
	if cfg.Backup.Cron != "" {
		backups := backupservice.NewBackupService(repo, cfg.Backup)
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Backup.Cron, func() {
			if _, appErr := backups.Run(context.Background()); appErr != nil {
				logger.Error("scheduled backup failed", appErr)
			}
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("backup schedule active", "cron", cfg.Backup.Cron)
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Listen)
		if err := e.Start(cfg.Server.Listen); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
