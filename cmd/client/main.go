package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/exalaa/candidate-client/internal/buildinfo"
	"github.com/exalaa/candidate-client/internal/client/cli"
	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/config"
	"github.com/exalaa/candidate-client/internal/client/controller"
	"github.com/exalaa/candidate-client/internal/client/services"
	"github.com/exalaa/candidate-client/internal/client/session"
	"github.com/exalaa/candidate-client/internal/logging"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "error", err)
		return err
	}
	defer db.Close()

	clock := clockwork.NewRealClock()
	apiClient := client.NewHTTPClient(cfg.ServerBaseURL, cfg.APIPrefix, cfg.RequestTimeout, logger)
	store := session.NewStore(db, cfg.Profile, clock, logger)

	ctrl := controller.New(store,
		services.NewAuthService(apiClient, store),
		services.NewDashboardLoader(apiClient),
		services.NewApplicationTracker(apiClient, store, clock, cfg.RefreshInterval, logger),
		services.NewSurveyService(apiClient, store, logger),
		logger,
	)

	logger.Info(ctx, "client started",
		"server", cfg.ServerBaseURL, "profile", cfg.Profile, "version", buildinfo.Version)

	app := cli.NewApp(ctrl, clock, cfg.OnlineCheckInterval, logger, os.Stdin, os.Stdout)
	return app.Run(ctx)
}
