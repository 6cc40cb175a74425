package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/koki-develop/resizer/internal/config"
	"github.com/koki-develop/resizer/internal/export"
	"github.com/koki-develop/resizer/internal/loader"
	"github.com/koki-develop/resizer/internal/logging"
	"github.com/koki-develop/resizer/internal/ui"
)

type rootFlags struct {
	configPath    string
	debug         bool
	headless      bool
	outDir        string
	width         int
	height        int
	lockRatio     bool
	reduceQuality bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "resizer [image]",
		Short:         "Resize an image and save it as JPEG",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			cfg, _, _, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, cfg)

			headless := flags.headless || !isatty.IsTerminal(os.Stdout.Fd())

			// The terminal UI owns stdout/stderr.
			var fallback io.Writer
			if headless {
				fallback = os.Stderr
			}
			logger, closeLog, err := logging.New(logging.Options{
				Config:   cfg.Logging,
				Debug:    flags.debug,
				Fallback: fallback,
			})
			if err != nil {
				return err
			}
			defer closeLog()

			exporter := export.NewExporter(logger, cfg.Export.Filter, export.Limits{
				MaxSide:   cfg.Export.MaxSide,
				MaxPixels: cfg.Export.MaxPixels,
			})
			saver := export.DirSaver{Dir: cfg.Export.OutputDir}
			l := loader.New(logger)

			logger.WithFields(logrus.Fields{
				"headless": headless,
				"output":   cfg.Export.OutputDir,
			}).Debug("starting")

			if headless {
				if path == "" {
					return errors.New("an image path is required when not running in a terminal")
				}
				var width, height *int
				if cmd.Flags().Changed("width") {
					width = &flags.width
				}
				if cmd.Flags().Changed("height") {
					height = &flags.height
				}
				return runHeadless(cmd.Context(), cmd.OutOrStdout(), &headlessOption{
					Path:     path,
					Width:    width,
					Height:   height,
					Config:   cfg,
					Logger:   logger,
					Loader:   l,
					Exporter: exporter,
					Saver:    saver,
				})
			}

			return ui.Start(&ui.Option{
				Path:     path,
				Config:   cfg,
				Logger:   logger,
				Loader:   l,
				Exporter: exporter,
				Saver:    saver,
			})
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.config/resizer/config.toml)")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&flags.headless, "headless", false, "resize without the terminal UI")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "directory to save the resized image in")
	cmd.Flags().IntVar(&flags.width, "width", 0, "target width (headless); with --lock-ratio the height follows")
	cmd.Flags().IntVar(&flags.height, "height", 0, "target height (headless); applied after --width")
	cmd.Flags().BoolVar(&flags.lockRatio, "lock-ratio", true, "keep the original aspect ratio")
	cmd.Flags().BoolVar(&flags.reduceQuality, "reduce-quality", false, "encode with reduced JPEG quality")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	if cmd.Flags().Changed("out") {
		if dir, err := config.ExpandPath(flags.outDir); err == nil {
			cfg.Export.OutputDir = dir
		}
	}
	if cmd.Flags().Changed("lock-ratio") {
		cfg.Resize.LockRatio = flags.lockRatio
	}
	if cmd.Flags().Changed("reduce-quality") {
		cfg.Resize.ReduceQuality = flags.reduceQuality
	}
}

func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
