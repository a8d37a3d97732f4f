package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// Colour helpers. fatih/color disables them when stdout is not a terminal.
var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// printReport writes the accepted and excluded files of an intake run.
func printReport(cmd *cobra.Command, result *domain.ProcessingResult) {
	cmd.Printf("%s %d files (%s)\n", green("Processed"), len(result.Processed),
		humanize.IBytes(uint64(result.TotalSize())))
	for _, entry := range result.Processed {
		cmd.Printf("  %s %s\n", entry.Path, gray("("+humanize.IBytes(uint64(entry.Size))+")"))
	}

	if len(result.Excluded) == 0 {
		return
	}
	cmd.Printf("%s %d files\n", yellow("Excluded"), len(result.Excluded))
	for _, ex := range result.Excluded {
		cmd.Printf("  %s: %s\n", ex.File, ex.Reason)
	}
}

// printUpload writes the outcome of an upload.
func printUpload(cmd *cobra.Command, result *domain.UploadResult) {
	var created, updated int
	for _, f := range result.Files {
		if f.Action == domain.FileUpdated {
			updated++
		} else {
			created++
		}
	}
	cmd.Printf("%s %d files to %s/%s (%d added, %d updated)\n", green("Uploaded"),
		len(result.Files), result.Owner, result.Repo, created, updated)
	if result.Branch != "" {
		cmd.Printf("Branch: %s\n", result.Branch)
	}
	if result.PullRequestURL != "" {
		cmd.Printf("Pull request: %s\n", cyan(result.PullRequestURL))
	}
}
