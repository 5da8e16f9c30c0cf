// Package main is the entry point for Cave in the Darkness.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/samdwyer/darkcave/internal/game"
	"github.com/samdwyer/darkcave/internal/telemetry"
)

// flags overrides layered on top of env and the config file.
type flags struct {
	config     string
	seed       int64
	savesDir   string
	logFile    string
	background string
}

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:          "darkcave",
		Short:        "Cave in the Darkness, a terminal dungeon crawler",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return play(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().StringVar(&f.config, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&f.savesDir, "saves-dir", "", "directory holding saved games")
	root.Flags().Int64Var(&f.seed, "seed", 0, "dungeon seed (0 picks one per game)")
	root.Flags().StringVar(&f.logFile, "log-file", "", "file receiving diagnostics")
	root.Flags().StringVar(&f.background, "background", "", "starting background (barbarian, ranger, wizard)")

	root.AddCommand(newSavesCmd(&f))
	return root
}

func newSavesCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			return listSaves(cmd.OutOrStdout(), cfg)
		},
	}
}

// loadConfig applies env, then the config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, f flags) (game.Config, error) {
	cfg, err := game.LoadConfig(f.config)
	if err != nil {
		return game.Config{}, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	if cmd.Flags().Changed("saves-dir") {
		cfg.SavesDir = f.savesDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if cmd.Flags().Changed("background") {
		cfg.Background = f.background
	}
	return cfg, cfg.Validate()
}

func play(ctx context.Context, cfg game.Config) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("darkcave needs an interactive terminal")
	}

	// The screen owns stdout, so diagnostics go to a file.
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer file.Close()
		logger = log.New(file, "darkcave ", log.LstdFlags)
	}

	if cfg.Telemetry {
		setupOTelEnv()
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	g, err := game.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

func listSaves(w io.Writer, cfg game.Config) error {
	store, err := game.NewStore(cfg)
	if err != nil {
		return err
	}
	names := store.List()
	if len(names) == 0 {
		fmt.Fprintf(w, "No saved games in %s\n", store.Dir())
		return nil
	}
	for i, name := range names {
		entry, err := store.Describe(name)
		if err != nil {
			fmt.Fprintf(w, "%d. %s (%v)\n", i+1, name, err)
			continue
		}
		fmt.Fprintf(w, "%d. %-15s %8s  saved %s\n",
			i+1, entry.Name, humanize.Bytes(uint64(entry.Size)), humanize.Time(entry.ModTime))
	}
	return nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	apiKey := os.Getenv("HONEYCOMB_DARKCAVE_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DARKCAVE_DATASET")
	if dataset == "" {
		dataset = "darkcave"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
