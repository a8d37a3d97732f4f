package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/repodrop/internal/adapters/driven/archive/ziparchive"
	"github.com/custodia-labs/repodrop/internal/adapters/driven/config/file"
	"github.com/custodia-labs/repodrop/internal/adapters/driving/cli"
	"github.com/custodia-labs/repodrop/internal/connectors/filesystem"
	"github.com/custodia-labs/repodrop/internal/connectors/github"
	"github.com/custodia-labs/repodrop/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open config: %v\n", err)
		return err
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load settings: %v\n", err)
		return err
	}

	// One limiter for the whole process: the orchestrator takes per-file
	// permits from it and every client reports quota headers into it.
	limiter := github.NewRateLimiter(github.RateLimitConfig{
		MaxRequests: settings.RateLimit.MaxRequests,
		Window:      settings.RateLimit.Window(),
		PerSecond:   settings.RateLimit.PerSecond,
	})
	factory := github.NewFactory(limiter, settings.GitHub.APIURL)

	intakeService := services.NewIntakeService(ziparchive.New(), filesystem.New(), settings.Intake)
	uploadService := services.NewUploadService(factory, limiter, settings.Upload)
	repositoryService := services.NewRepositoryService(factory, uploadService)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Intake:     intakeService,
		Upload:     uploadService,
		Repository: repositoryService,
		Settings:   settingsService,
	})

	return cli.Execute()
}
