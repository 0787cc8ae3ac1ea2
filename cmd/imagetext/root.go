package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/config"
	"github.com/ironsheep/imagetext/internal/logger"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "imagetext",
		Short: "Extract, translate and summarize the text of images",
		Long: `imagetext finds the text regions of an image, recognizes each region with
an OCR engine, detects the language of the result and optionally translates
or summarizes it.

Configuration is read from an optional YAML file (--config) and the
environment; a .env file in the working directory is loaded first.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if err := logger.Setup(cfg.Log); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.cfg = cfg
			log := logger.WithComponent("cmd")
			log.Debug().
				Str("command", cmd.Name()).
				Str("ocr_backend", cfg.OCR.Backend).
				Msg("Configuration loaded")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newExtractCmd(opts),
		newRegionsCmd(opts),
		newServeCmd(opts),
		newWorkerCmd(opts),
		newEnqueueCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}
