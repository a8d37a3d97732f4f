package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage your GitHub repositories",
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your repositories, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runReposList,
}

var (
	createDescription string
	createPrivate     bool
	createReadme      bool
)

var reposCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runReposCreate,
}

func init() {
	reposCreateCmd.Flags().StringVar(&createDescription, "description", "", "Repository description")
	reposCreateCmd.Flags().BoolVar(&createPrivate, "private", false, "Create a private repository")
	reposCreateCmd.Flags().BoolVar(&createReadme, "readme", false, "Initialise the repository with a README")

	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposCreateCmd)
	rootCmd.AddCommand(reposCmd)
}

func runReposList(cmd *cobra.Command, _ []string) error {
	if repositoryService == nil {
		return errors.New("repository service not configured")
	}

	repos, err := repositoryService.List(cmd.Context(), resolveToken())
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	if len(repos) == 0 {
		cmd.Println("No repositories found.")
		return nil
	}

	for _, r := range repos {
		visibility := "public"
		if r.Private {
			visibility = "private"
		}
		cmd.Printf("%-40s %-8s updated %s\n", r.FullName, visibility, humanize.Time(r.UpdatedAt))
	}
	return nil
}

func runReposCreate(cmd *cobra.Command, args []string) error {
	if repositoryService == nil {
		return errors.New("repository service not configured")
	}

	repo, err := repositoryService.Create(cmd.Context(), resolveToken(), domain.RepoTarget{
		Name:        args[0],
		Description: createDescription,
		Private:     createPrivate,
		InitReadme:  createReadme,
	})
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	cmd.Printf("Created repository %s\n", repo.FullName)
	if repo.HTMLURL != "" {
		cmd.Printf("  %s\n", repo.HTMLURL)
	}
	return nil
}
