// Command reverie is the dream-journal command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/reverie/pkg/reverie"
	"github.com/cognicore/reverie/pkg/reverie/config"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reverie",
	Short: "reverie - a local dream journal with text analytics",
	Long: `reverie records dream journal entries, scores each one for sentiment,
primary emotion and a nightmare index, and answers search, topic and
insight queries over the whole journal. All output is JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		showCmd(),
		scoreCmd(),
		searchCmd(),
		findCmd(),
		topicsCmd(),
		insightsCmd(),
		rescoreCmd(),
		exportCmd(),
		importCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = lc.Format
	if lc.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// openJournal opens the configured journal; callers close it.
func openJournal(ctx context.Context) (*reverie.Journal, error) {
	j, err := reverie.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Journal opened",
		zap.String("driver", cfg.Store.Driver),
		zap.String("path", cfg.Store.Path))
	return j, nil
}

// withJournal opens the journal, runs fn and closes it again.
func withJournal(cmd *cobra.Command, fn func(ctx context.Context, j *reverie.Journal) error) error {
	ctx := cmd.Context()
	j, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := j.Close(); cerr != nil {
			logger.Warn("Closing journal failed", zap.Error(cerr))
		}
	}()
	return fn(ctx, j)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
