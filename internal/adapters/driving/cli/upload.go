package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

var uploadExisting bool

var uploadCmd = &cobra.Command{
	Use:   "upload <repo> <path>...",
	Short: "Upload files to a repository",
	Long: `Filters the given files, folders and ZIP archives and uploads the result.

<repo> is a repository name owned by the token's user or owner/name.
With --existing the files are committed to a new update-<timestamp> branch and
a pull request is opened against the base branch. Without it the repository
is treated as freshly created and files go to its default branch.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

var (
	publishDescription string
	publishPrivate     bool
	publishReadme      bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <name> <path>...",
	Short: "Create a repository and upload files to it",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPublish,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadExisting, "existing", false, "Upload through a branch and pull request")
	rootCmd.AddCommand(uploadCmd)

	publishCmd.Flags().StringVar(&publishDescription, "description", "", "Repository description")
	publishCmd.Flags().BoolVar(&publishPrivate, "private", false, "Create a private repository")
	publishCmd.Flags().BoolVar(&publishReadme, "readme", false, "Initialise the repository with a README")
	rootCmd.AddCommand(publishCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if intakeService == nil || uploadService == nil {
		return errors.New("upload service not configured")
	}
	tok := resolveToken()
	if tok == "" {
		return domain.ErrTokenRequired
	}

	files, err := collectFiles(cmd, args[1:])
	if err != nil {
		return err
	}

	result, err := uploadService.Upload(cmd.Context(), tok, domain.UploadRequest{
		RepoName:     args[0],
		Files:        files,
		ExistingRepo: uploadExisting,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	printUpload(cmd, result)
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	if intakeService == nil || repositoryService == nil {
		return errors.New("repository service not configured")
	}
	tok := resolveToken()
	if tok == "" {
		return domain.ErrTokenRequired
	}

	files, err := collectFiles(cmd, args[1:])
	if err != nil {
		return err
	}

	repo, result, err := repositoryService.Publish(cmd.Context(), tok, domain.RepoTarget{
		Name:        args[0],
		Description: publishDescription,
		Private:     publishPrivate,
		InitReadme:  publishReadme,
	}, files)
	if repo != nil {
		cmd.Printf("Created repository %s\n", repo.HTMLURL)
	}
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	printUpload(cmd, result)
	return nil
}

// collectFiles runs intake over paths and prints the report.
func collectFiles(cmd *cobra.Command, paths []string) ([]domain.InputEntry, error) {
	processed, err := intakeService.ProcessPaths(cmd.Context(), paths)
	if err != nil {
		return nil, fmt.Errorf("intake failed: %w", err)
	}
	printReport(cmd, processed)

	if len(processed.Processed) == 0 {
		return nil, errors.New("no files to upload")
	}
	return processed.Processed, nil
}
