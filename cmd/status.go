package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/svega/cinelist/api"
	"github.com/svega/cinelist/movie"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show connection, account, and catalog summary",
	PreRunE: requireAuth,
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("Backend: %s\n", apiClient.BaseURL())

	// Profile and collection are independent reads, fetch them together.
	var (
		user   *api.User
		movies []movie.Movie
	)
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		user, err = authSvc.CurrentUser(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		movies, err = movieSvc.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return describeAPIError(err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("\nAccount: %s <%s>\n", user.Username, user.Email)
	fmt.Printf("Catalog: %d movies\n", len(movies))

	if len(movies) > 0 && cfg.Safety.ShowDetails {
		genres := make(map[string]int)
		for _, m := range movies {
			if m.Genre != "" {
				genres[m.Genre]++
			}
		}
		if len(genres) > 0 {
			fmt.Println("\nBy genre:")
			for genre, count := range genres {
				fmt.Printf("  • %s: %d\n", genre, count)
			}
		}
	}

	return nil
}
