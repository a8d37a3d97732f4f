package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repodrop/internal/adapters/driving/dropzone"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a drop folder and report what would be uploaded",
	Long: `Watches a folder. Whenever files, folders or ZIP archives are dropped into
it, intake runs on the new items and the report is printed. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if intakeService == nil || settingsService == nil {
		return errors.New("intake service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	batches, err := dropzone.New(args[0], intakeService, settings.DropZone.Debounce).Watch(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s\n", args[0])
	for batch := range batches {
		if batch.Err != nil {
			cmd.Printf("Intake failed: %v\n", batch.Err)
			continue
		}
		printReport(cmd, batch.Result)
	}
	return nil
}
