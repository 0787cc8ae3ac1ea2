package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/pipeline"
)

func newRegionsCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "regions <image>",
		Short: "List the text regions of an image without recognizing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			info, err := imaging.Inspect(path)
			if err != nil {
				return err
			}

			pcfg, err := pipelineConfig(opts.cfg.Segment)
			if err != nil {
				return err
			}
			// Segmentation never reaches the engine.
			p, err := pipeline.New(pcfg, pipeline.Deps{Engine: segmentOnly{}, Logger: logger.WithComponent("pipeline")})
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			regions, err := p.DetectRegions(f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{"image": info, "regions": regions})
			}

			fmt.Fprintf(out, "%s: %dx%d %s, %d regions\n", path, info.Width, info.Height, info.Format, len(regions))
			for i, r := range regions {
				fmt.Fprintf(out, "%4d  %s\n", i, r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	return cmd
}
