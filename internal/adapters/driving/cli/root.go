// Package cli is the command line driving adapter for repodrop.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
	"github.com/custodia-labs/repodrop/internal/logger"
)

// TokenEnv is read when --token is not given.
//
//nolint:gosec // G101: environment variable name, not a credential.
const TokenEnv = "GITHUB_TOKEN"

var (
	version = "dev"

	verbose bool
	token   string

	intakeService     driving.IntakeService
	uploadService     driving.UploadService
	repositoryService driving.RepositoryService
	settingsService   driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "repodrop",
	Short: "Filter files and upload them to GitHub",
	Long: `repodrop takes files, folders and ZIP archives, drops anything under a
node_modules directory, and uploads the rest to a GitHub repository.

New repositories receive the files directly. Existing repositories get a new
branch and a pull request.

The access token is read from --token or the GITHUB_TOKEN environment variable.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "GitHub access token (default $GITHUB_TOKEN)")
}

// Services bundles the core services the commands call.
type Services struct {
	Intake     driving.IntakeService
	Upload     driving.UploadService
	Repository driving.RepositoryService
	Settings   driving.SettingsService
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	intakeService = s.Intake
	uploadService = s.Upload
	repositoryService = s.Repository
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Interrupts cancel the running operation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// resolveToken returns --token, falling back to $GITHUB_TOKEN.
func resolveToken() string {
	if token != "" {
		return token
	}
	return os.Getenv(TokenEnv)
}
