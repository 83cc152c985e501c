package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fygallery/internal/config"
	"fygallery/internal/ui"
)

const version = "0.1.0"

// RunFunc starts the gallery window with the resolved configuration.
type RunFunc func(cfg *config.Config, logger *slog.Logger) error

// NewRootCmd builds the gallery command. Flags override the config file.
func NewRootCmd(run RunFunc) *cobra.Command {
	var (
		configPath string
		manifest   string
		directory  string
		catalogDB  string
		audioLoc   string
		interval   time.Duration
		fullscreen bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "fygallery [directory]",
		Short: "FyGallery - a rotating photo showcase with a sectioned lightbox gallery",
		Long: `FyGallery shows a hero slideshow of the priority section followed by the rest
of the album, tinted with the current photo's ambient color, above a sectioned
thumbnail grid. The dataset is a manifest (TOML or YAML), a directory whose
sub-directories are named after sections, or a catalog built by fygallery-cli.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				directory = args[0]
			}
			flags := cmd.Flags()
			if manifest != "" || directory != "" || catalogDB != "" {
				cfg.Dataset.Manifest, cfg.Dataset.Directory, cfg.Dataset.Catalog = manifest, directory, catalogDB
			}
			if flags.Changed("audio") {
				cfg.Audio.Location = audioLoc
			}
			if flags.Changed("interval") {
				cfg.Slideshow.IntervalMS = int(interval / time.Millisecond)
			}
			if flags.Changed("fullscreen") {
				cfg.UI.Fullscreen = fullscreen
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)
			return run(cfg, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.config/fygallery/config.toml)")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Gallery manifest (.toml, .yaml)")
	cmd.Flags().StringVar(&directory, "dir", "", "Directory with one sub-directory per section")
	cmd.Flags().StringVar(&catalogDB, "catalog", "", "Catalog database built by fygallery-cli")
	cmd.Flags().StringVar(&audioLoc, "audio", "", "Ambient audio file or URL, looped")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Slideshow autoplay interval")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Start fullscreen")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func main() {
	if err := fang.Execute(
		context.Background(),
		NewRootCmd(ui.CreateApplication),
		fang.WithVersion(version),
	); err != nil {
		os.Exit(1)
	}
}
