package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/relgen/bugzilla-query/bugzilla"
	"github.com/relgen/bugzilla-query/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *bugzilla.Client

	// Persistent command flags
	host   string
	apiKey string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bugzilla-query",
	Short: "Query bugs from a Bugzilla instance",
	Long: `bugzilla-query fetches bug records from the REST API of a Bugzilla
instance and prints them as a table or as JSON. The instance host and
credentials come from a config file, the environment, or flags.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build version shown by the version flag.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Bugzilla instance URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Bugzilla API key (overrides config)")

	rootCmd.AddCommand(getCmd)
}

// initializeApp initializes the configuration, logger, and Bugzilla client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags win over config file and environment
	if host != "" {
		cfg.Bugzilla.Host = host
	}
	if apiKey != "" {
		cfg.Bugzilla.APIKey = apiKey
	}

	if cfg.Bugzilla.Host == "" {
		return fmt.Errorf("no Bugzilla host configured: set bugzilla.host or pass --host")
	}

	logger = setupLogger(cfg.Logging)

	client, err = newClient(cmd)
	if err != nil {
		return fmt.Errorf("failed to create Bugzilla client: %w", err)
	}

	return nil
}

// newClient builds the Bugzilla client from the merged configuration.
func newClient(cmd *cobra.Command) (*bugzilla.Client, error) {
	opts := []bugzilla.Option{
		bugzilla.WithLogger(logger),
		bugzilla.WithFields(requestFields(cmd)),
		bugzilla.WithPagination(requestPagination(cmd)),
	}
	if cfg.Bugzilla.APIKey != "" {
		opts = append(opts, bugzilla.WithAPIKey(cfg.Bugzilla.APIKey))
	}
	return bugzilla.New(cfg.Bugzilla.Host, opts...)
}

// requestFields resolves the include_fields list from flags and config.
func requestFields(cmd *cobra.Command) []string {
	if cmd.Flags().Changed("fields") {
		return fields
	}
	return cfg.Request.IncludeFields
}

// requestPagination resolves the pagination mode from flags and config.
func requestPagination(cmd *cobra.Command) bugzilla.Pagination {
	resolvedLimit := cfg.Request.Limit
	resolvedUnlimited := cfg.Request.Unlimited
	if cmd.Flags().Changed("limit") {
		resolvedLimit = limit
		resolvedUnlimited = false
	}
	if cmd.Flags().Changed("unlimited") {
		resolvedUnlimited = unlimited
	}

	switch {
	case resolvedUnlimited:
		return bugzilla.Unlimited()
	case resolvedLimit > 0:
		return bugzilla.Limit(resolvedLimit)
	default:
		return bugzilla.DefaultPagination()
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}

// newLogger builds a logger writing to out in the configured format.
func newLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
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
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
