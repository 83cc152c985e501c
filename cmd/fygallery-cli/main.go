package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fygallery/internal/ambient"
	"fygallery/internal/catalog"
	"fygallery/internal/config"
	"fygallery/internal/service"
)

const version = "0.1.0"

// ServiceFunc opens the catalog at dbPath and returns a service over it.
type ServiceFunc func(dbPath string, logger *slog.Logger) (*service.Service, error)

// NewRootCmd creates the root command for the CLI application.
// getService is responsible for opening the catalog, which allows tests to
// inject their own instances.
func NewRootCmd(getService ServiceFunc) *cobra.Command {
	var (
		dbPathFlag   string
		logLevelFlag string
		svc          *service.Service
	)

	rootCmd := &cobra.Command{
		Use:           "fygallery-cli",
		Short:         "FyGallery CLI - manage and inspect the gallery catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level, err := config.ParseLevel(logLevelFlag)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if dbPathFlag == "" {
				cfg, err := config.Load("")
				if err != nil {
					return err
				}
				dbPathFlag = cfg.Dataset.Catalog
			}
			svc, err = getService(dbPathFlag, logger)
			if err != nil {
				return fmt.Errorf("failed to open catalog: %w", err)
			}
			return nil
		},
	}

	// Cobra skips post-run hooks when RunE fails, so every command closes
	// the store itself to release the bbolt file lock.
	closeStore := func() {
		if svc != nil && svc.Store != nil {
			svc.Store.Close()
		}
		svc = nil
	}
	withStore := func(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			defer closeStore()
			return run(cmd, args)
		}
	}

	importCmd := &cobra.Command{
		Use:   "import [manifest|directory]",
		Short: "Replace the catalog with the images of a manifest or a section directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := svc.Import(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d images from %s\n", n, args[0])
			return nil
		},
	}
	rootCmd.AddCommand(importCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records in dataset order",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := svc.Records()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No images in the catalog.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSECTION\tLOCATION\tCAPTION")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Section, r.Location, r.Caption)
			}
			return w.Flush()
		},
	}
	rootCmd.AddCommand(listCmd)

	rotationCmd := &cobra.Command{
		Use:   "rotation",
		Short: "Show the hero rotation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := svc.Playlist()
			if err != nil {
				return err
			}
			for i, r := range pl.Rotation {
				cmd.Printf("%3d  %s (%s)\n", i, r.ID, r.Section)
			}
			return nil
		},
	}
	rootCmd.AddCommand(rotationCmd)

	sectionsCmd := &cobra.Command{
		Use:   "sections",
		Short: "Show the thumbnail grid groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := svc.Playlist()
			if err != nil {
				return err
			}
			for _, g := range pl.Sections {
				cmd.Printf("%s (%d)\n", g.Name, len(g.Items))
				for _, r := range g.Items {
					cmd.Printf("  %s\n", r.ID)
				}
			}
			return nil
		},
	}
	rootCmd.AddCommand(sectionsCmd)

	var (
		widthFlag int
		alphaFlag int
	)
	sampleCmd := &cobra.Command{
		Use:   "sample [id|location]",
		Short: "Compute the ambient color of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if alphaFlag < 0 || alphaFlag > 255 {
				return fmt.Errorf("--alpha must be within 0..255, got %d", alphaFlag)
			}
			location := resolveLocation(svc, args[0])
			sampler := ambient.NewSampler(svc.Images, widthFlag, uint8(alphaFlag), svc.Logger)
			c, err := sampler.Sample(cmd.Context(), location)
			if err != nil {
				return err
			}
			cmd.Println(ambient.Hex(c))
			return nil
		},
	}
	sampleCmd.Flags().IntVar(&widthFlag, "width", ambient.DefaultSampleWidth, "Downsample width in pixels")
	sampleCmd.Flags().IntVar(&alphaFlag, "alpha", ambient.DefaultAlphaThreshold, "Minimum alpha of a sampled pixel")
	rootCmd.AddCommand(sampleCmd)

	infoCmd := &cobra.Command{
		Use:   "info [id|location]",
		Short: "Show dimensions and EXIF metadata of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := resolveLocation(svc, args[0])
			info, err := svc.Images.GetImageInfo(cmd.Context(), location)
			if err != nil {
				return err
			}
			cmd.Printf("Location: %s\n", location)
			cmd.Printf("Format: %s\n", info.Format)
			cmd.Printf("Dimensions: %dx%d\n", info.Width, info.Height)
			cmd.Printf("Size: %d bytes\n", info.Size)
			keys := make([]string, 0, len(info.EXIFData))
			for k := range info.EXIFData {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				cmd.Printf("%s: %s\n", k, info.EXIFData[k])
			}
			return nil
		},
	}
	rootCmd.AddCommand(infoCmd)

	for _, c := range rootCmd.Commands() {
		if c.RunE != nil {
			c.RunE = withStore(c.RunE)
		}
	}

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Path to catalog database")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level (debug, info, warn, error)")

	return rootCmd
}

// resolveLocation treats arg as a catalog id first and as a location otherwise.
func resolveLocation(svc *service.Service, arg string) string {
	if rec, err := svc.Lookup(arg); err == nil {
		return rec.Location
	}
	return arg
}

func main() {
	getService := func(dbPath string, logger *slog.Logger) (*service.Service, error) {
		store, err := catalog.OpenStore(dbPath, logger)
		if err != nil {
			return nil, err
		}
		return service.NewService(store, nil, logger), nil
	}
	rootCmd := NewRootCmd(getService)
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
