package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mmetrics/adsdata/accounts"
	"github.com/mmetrics/adsdata/config"
	"github.com/mmetrics/adsdata/googleads"
	"github.com/mmetrics/adsdata/secrets"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	store    *accounts.Store
	keyStore *secrets.SSMStore
	factory  *googleads.Factory
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adsdata",
	Short: "Fetch Google Ads account data and reports",
	Long: `adsdata resolves stored account credentials and pulls Google Ads
report data over the REST API. Results are written as CSV and can be
narrowed with filter expressions.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: teardownApp,
}

// SetVersion records build information for the --version output
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	store, err = accounts.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to accounts store: %w", err)
	}

	keyStore, err = secrets.NewSSMStore(ctx, cfg.Secrets.Region, cfg.Secrets.Parameter, logger)
	if err != nil {
		return fmt.Errorf("failed to set up key store: %w", err)
	}

	opts := googleads.Options{
		Endpoint:    cfg.GoogleAds.Endpoint,
		APIVersion:  cfg.GoogleAds.APIVersion,
		MaxAttempts: cfg.GoogleAds.Retry.MaxAttempts,
		Deadline:    cfg.GoogleAds.Retry.Deadline,
	}
	var factoryOpts []googleads.FactoryOption
	if cfg.GoogleAds.LoginCacheTTL > 0 {
		factoryOpts = append(factoryOpts, googleads.WithLoginCache(cfg.GoogleAds.LoginCacheTTL))
	}

	factory = googleads.NewFactory(store, keyStore, opts, logger, factoryOpts...)

	return nil
}

// teardownApp releases the accounts store connection
func teardownApp(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.Close(ctx)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
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

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only on real terminals
	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connections to the accounts database and key store",
	Long:  `Test the connections to MongoDB and the SSM key store and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// The accounts store is pinged during initialization
	fmt.Printf("Testing connection to MongoDB at %s...\n", cfg.Mongo.URI)
	fmt.Println("✓ Connection successful!")

	fmt.Printf("\nFetching Google Ads API keys from %s (%s)...\n", cfg.Secrets.Parameter, cfg.Secrets.Region)
	keys, err := keyStore.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch API keys: %w", err)
	}
	fmt.Println("✓ API keys loaded!")
	fmt.Printf("- Client ID: %s\n", keys.ClientID)

	return nil
}
