package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/service"
	"github.com/ironsheep/imagetext/internal/transform"
)

// operationFlags are shared by extract and enqueue.
type operationFlags struct {
	operation string
	target    string
	userID    string
}

func (f *operationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.operation, "operation", "p", "view", "Operation: view, translate or summarize")
	cmd.Flags().StringVarP(&f.target, "to", "t", "", "Target language code for translate (e.g. fr)")
	cmd.Flags().StringVarP(&f.userID, "user", "u", defaultUser(), "User the extraction is recorded for")
}

func (f *operationFlags) parse() (transform.Operation, error) {
	op, known, err := transform.ParseOperation(f.operation, f.target)
	if err != nil {
		return op, err
	}
	if !known {
		log := logger.WithComponent("cmd")
		log.Warn().
			Str("operation", f.operation).
			Msg("Unknown operation, extracting without transformation")
	}
	return op, nil
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// signalContext is canceled on SIGINT/SIGTERM and, if timeout > 0, after timeout.
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func newExtractCmd(opts *options) *cobra.Command {
	var (
		flags      operationFlags
		jsonOutput bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract text from an image",
		Example: `  # Print the text of a scan
  imagetext extract scan.png

  # Translate into French
  imagetext extract scan.png -p translate -t fr

  # Summarize and print the full result as JSON
  imagetext extract scan.png -p summarize --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := flags.parse()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(timeout)
			defer cancel()

			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.extractor.Extract(ctx, service.Request{UserID: flags.userID, ImagePath: args[0], Operation: op})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			res := resp.Result
			fmt.Fprintf(out, "%s (detected language: %s)\n\n%s", res.Label, res.DetectedLanguage, res.Text)
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Stage, w.Message)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall timeout")
	return cmd
}
