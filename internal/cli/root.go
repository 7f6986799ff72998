// Package cli provides the command-line interface for PharmScribe.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/config"
	"github.com/anandvisw/pharmscribe-go/internal/gemini"
	"github.com/anandvisw/pharmscribe-go/internal/history"
	"github.com/anandvisw/pharmscribe-go/internal/router"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and logger, set up in PersistentPreRun
	cfg       config.Config
	logger    *slog.Logger
	logCloser func() error

	// Lazy-initialized components
	geminiClient *gemini.Client
	store        *history.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pharmscribe",
	Short: "Adverse drug event analysis from clinical narratives",
	Long: `PharmScribe analyzes clinical narratives, prescription images, documents and
recorded speech for adverse drug events (ADEs).

Each analysis produces a structured report: detected drugs, adverse events,
modifiers and indications, a risk score, clinical reasoning, suggested
actions, and a Tamil mirror of the summary for bilingual read-aloud.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCloser = config.SetupLogger(cfg.LogFile, level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser()
		}
	},
}

// getGemini lazily creates the Gemini transport. Commands that never talk to
// the service (reports list, etc.) skip the API-key requirement entirely.
func getGemini(ctx context.Context) (*gemini.Client, error) {
	if geminiClient != nil {
		return geminiClient, nil
	}
	client, err := gemini.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	geminiClient = client
	return geminiClient, nil
}

func getAnalyzer(ctx context.Context) (*analysis.Analyzer, error) {
	client, err := getGemini(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.New(client, router.New(cfg), logger), nil
}

func getStore() *history.Store {
	if store == nil {
		store = history.NewStore(cfg.HistoryPath)
	}
	return store
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(serveCmd)
}
