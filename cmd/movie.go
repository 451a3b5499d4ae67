package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svega/cinelist/filter"
	"github.com/svega/cinelist/movie"
)

var (
	filterExpr  string
	addTitle    string
	addYear     int
	addDirector string
	addGenre    string
	addTMDBID   string
	fromSearch  string
	noConfirm   bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the movies in your catalog",
	PreRunE: requireAuth,
	RunE:    runList,
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a movie to your catalog",
	Long: `Add a movie to your catalog.

Fields not given as flags are prompted for. With --from, the external
catalog is searched first and the chosen hit pre-fills the title, year,
and catalog id.`,
	PreRunE: requireAuth,
	RunE:    runAdd,
}

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Edit a movie (full-field replace)",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireAuth,
	RunE:    runEdit,
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Short:   "Remove a movie from your catalog",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireAuth,
	RunE:    runRemove,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:     "search <title>",
	Short:   "Search the external catalog by title",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requireAuth,
	RunE:    runSearch,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression, e.g. 'Year > 2010 && contains(Genre, \"sci\")'")

	addCmd.Flags().StringVar(&addTitle, "title", "", "movie title")
	addCmd.Flags().IntVar(&addYear, "year", 0, "release year")
	addCmd.Flags().StringVar(&addDirector, "director", "", "director")
	addCmd.Flags().StringVar(&addGenre, "genre", "", "genre")
	addCmd.Flags().StringVar(&addTMDBID, "tmdb-id", "", "external catalog id")
	addCmd.Flags().StringVar(&fromSearch, "from", "", "search the external catalog and pre-fill from a hit")

	editCmd.Flags().StringVar(&addTitle, "title", "", "movie title")
	editCmd.Flags().IntVar(&addYear, "year", 0, "release year")
	editCmd.Flags().StringVar(&addDirector, "director", "", "director")
	editCmd.Flags().StringVar(&addGenre, "genre", "", "genre")

	removeCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(searchCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	movies, err := movieSvc.List(ctx)
	if err != nil {
		return describeAPIError(err)
	}

	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		movies = f.Apply(movies)
	}

	if len(movies) == 0 {
		if filterExpr != "" {
			fmt.Println("No movies match the filter.")
		} else {
			fmt.Println("Your catalog is empty. Add a movie with 'cinelist add'.")
		}
		return nil
	}

	fmt.Printf("\n%d movies:\n", len(movies))
	fmt.Println(strings.Repeat("-", 60))
	for _, m := range movies {
		printMovie(m)
	}

	return nil
}

func printMovie(m movie.Movie) {
	fmt.Printf("• [%d] %s (%d)\n", m.ID, m.Title, m.Year)
	if cfg.Safety.ShowDetails {
		fmt.Printf("  Director: %s | Genre: %s\n", m.Director, m.Genre)
		if m.IMDBID != "" {
			fmt.Printf("  IMDb: %s\n", m.IMDBID)
		}
		if !m.CreatedAt.IsZero() {
			fmt.Printf("  Added: %s\n", m.CreatedAt.Format("2006-01-02"))
		}
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fields := movie.Fields{
		Title:    addTitle,
		Year:     addYear,
		Director: addDirector,
		Genre:    addGenre,
		TMDBID:   addTMDBID,
	}

	if fromSearch != "" {
		prefill, err := pickSearchResult(ctx, fromSearch)
		if err != nil {
			return err
		}
		if prefill != nil {
			if fields.Title == "" {
				fields.Title = prefill.Title
			}
			if fields.Year == 0 {
				fields.Year = prefill.Year
			}
			if fields.TMDBID == "" {
				fields.TMDBID = prefill.TMDBID
			}
		}
	}

	if err := fillMissingFields(&fields); err != nil {
		return err
	}

	created, err := movieSvc.Create(ctx, fields)
	if err != nil {
		return describeAPIError(err)
	}
	fmt.Printf("✓ Added %s (%d) with id %d\n", created.Title, created.Year, created.ID)

	return reportCollectionSize(ctx)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	current, err := movieSvc.Get(ctx, id)
	if err != nil {
		return describeAPIError(err)
	}

	// Start from the current values; flags replace individual fields
	// but the update itself is a full-field replace.
	fields := movie.Fields{
		Title:    current.Title,
		Year:     current.Year,
		Director: current.Director,
		Genre:    current.Genre,
		TMDBID:   current.IMDBID,
	}
	if cmd.Flags().Changed("title") {
		fields.Title = addTitle
	}
	if cmd.Flags().Changed("year") {
		fields.Year = addYear
	}
	if cmd.Flags().Changed("director") {
		fields.Director = addDirector
	}
	if cmd.Flags().Changed("genre") {
		fields.Genre = addGenre
	}

	updated, err := movieSvc.Update(ctx, id, fields)
	if err != nil {
		return describeAPIError(err)
	}
	fmt.Printf("✓ Updated %s (%d)\n", updated.Title, updated.Year)

	return reportCollectionSize(ctx)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := parseMovieID(args[0])
	if err != nil {
		return err
	}

	m, err := movieSvc.Get(ctx, id)
	if err != nil {
		return describeAPIError(err)
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		if !promptConfirm(fmt.Sprintf("Remove %s (%d)?", m.Title, m.Year)) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := movieSvc.Delete(ctx, id); err != nil {
		return describeAPIError(err)
	}
	fmt.Printf("✓ Removed %s\n", m.Title)

	return reportCollectionSize(ctx)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	results, err := movieSvc.Search(context.Background(), query)
	if err != nil {
		return describeAPIError(err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	fmt.Printf("\n%d results:\n", len(results))
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range results {
		printSearchResult(r)
	}
	fmt.Println("\nAdd one with 'cinelist add --from <title>' or 'cinelist add --tmdb-id <id>'.")

	return nil
}

func printSearchResult(r movie.SearchResult) {
	if year := r.Year(); year > 0 {
		fmt.Printf("• %s (%d)", r.Title, year)
	} else {
		fmt.Printf("• %s", r.Title)
	}
	fmt.Printf("  [catalog id %d]\n", r.ID)
	if cfg.Safety.ShowDetails {
		if r.VoteAverage > 0 {
			fmt.Printf("  Rating: %.1f\n", r.VoteAverage)
		}
		if r.Overview != "" {
			fmt.Printf("  %s\n", truncate(r.Overview, 120))
		}
	}
}

// pickSearchResult searches the catalog and lets the user choose a
// hit to pre-fill the add form.
func pickSearchResult(ctx context.Context, query string) (*movie.Fields, error) {
	results, err := movieSvc.Search(ctx, query)
	if err != nil {
		return nil, describeAPIError(err)
	}
	if len(results) == 0 {
		fmt.Printf("No catalog results for %q, continuing with manual entry.\n", query)
		return nil, nil
	}

	fmt.Printf("\nCatalog results for %q:\n", query)
	for i, r := range results {
		fmt.Printf("%2d. ", i+1)
		printSearchResult(r)
	}

	answer, err := promptLine(fmt.Sprintf("Pick a result (1-%d, empty to skip)", len(results)), "")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}

	pick, err := strconv.Atoi(answer)
	if err != nil || pick < 1 || pick > len(results) {
		return nil, fmt.Errorf("invalid selection: %s", answer)
	}

	fields := results[pick-1].Fields()
	return &fields, nil
}

// fillMissingFields prompts for whatever the flags and pre-fill left
// empty, then validates before anything goes on the wire.
func fillMissingFields(fields *movie.Fields) error {
	var err error
	if fields.Title == "" {
		if fields.Title, err = promptLine("Title", ""); err != nil {
			return err
		}
	}
	if fields.Year == 0 {
		answer, err := promptLine("Year", "")
		if err != nil {
			return err
		}
		if fields.Year, err = strconv.Atoi(answer); err != nil {
			return fmt.Errorf("invalid year: %s", answer)
		}
	}
	if fields.Director == "" {
		if fields.Director, err = promptLine("Director", ""); err != nil {
			return err
		}
	}
	if fields.Genre == "" {
		if fields.Genre, err = promptLine("Genre", ""); err != nil {
			return err
		}
	}

	return fields.Validate()
}

// reportCollectionSize reloads the collection after a mutation so the
// reported state reflects what the backend now holds.
func reportCollectionSize(ctx context.Context) error {
	movies, err := movieSvc.List(ctx)
	if err != nil {
		return describeAPIError(err)
	}
	fmt.Printf("Catalog now holds %d movies.\n", len(movies))
	return nil
}

func parseMovieID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id: %s", arg)
	}
	return id, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
