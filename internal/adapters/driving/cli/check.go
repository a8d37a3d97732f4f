package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Show which files would be uploaded",
	Long: `Reads the given files, folders and ZIP archives and prints the files that
would be uploaded together with everything that was excluded and why.
Nothing is sent to GitHub.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if intakeService == nil {
		return errors.New("intake service not configured")
	}

	result, err := intakeService.ProcessPaths(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("intake failed: %w", err)
	}

	printReport(cmd, result)
	return nil
}
