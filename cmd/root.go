package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/svega/cinelist/api"
	"github.com/svega/cinelist/auth"
	"github.com/svega/cinelist/config"
	"github.com/svega/cinelist/movie"
	"github.com/svega/cinelist/session"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	store     *session.FileStore
	apiClient *api.Client
	authSvc   *auth.Service
	movieSvc  *movie.Service

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cinelist",
	Short: "Manage your personal movie catalog from the command line",
	Long: `cinelist is a CLI client for the cinelist movie-catalog service.
Register an account, log in, and build your collection: add movies by
hand or from the external catalog search, edit them, and remove them.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records build metadata injected by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration, session store, and services
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	store, err = session.NewFileStore(cfg.Session.File, logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	apiClient, err = api.NewClient(cfg.Server.URL, store, logger, api.WithTimeout(cfg.Server.Timeout))
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	authSvc = auth.NewService(apiClient, store, logger)
	movieSvc = movie.NewService(apiClient, logger)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// requireAuth gates commands that need an active session, the CLI
// analog of redirecting unauthenticated users away from the dashboard.
func requireAuth(cmd *cobra.Command, args []string) error {
	if err := initializeApp(cmd, args); err != nil {
		return err
	}
	if !store.IsAuthenticated() {
		return fmt.Errorf("not logged in: run 'cinelist login' first")
	}
	return nil
}

// requireAnonymous gates login/register, which make no sense with an
// active session.
func requireAnonymous(cmd *cobra.Command, args []string) error {
	if err := initializeApp(cmd, args); err != nil {
		return err
	}
	if store.IsAuthenticated() {
		name := "an account"
		if user := store.User(); user != nil {
			name = user.Username
		}
		return fmt.Errorf("already logged in as %s: run 'cinelist logout' first", name)
	}
	return nil
}

// promptLine reads one line of input, returning defaultValue on an
// empty answer.
func promptLine(label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("%s: ", label)
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// promptConfirm asks a yes/no question, defaulting to no.
func promptConfirm(label string) bool {
	fmt.Printf("%s [y/N]: ", label)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
