package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/service"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		userID   string
		exportID string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past extractions, or export one as a text file",
		Example: `  imagetext history
  imagetext history --export 7d3c1c1e-0f7b-4c1e-9a47-3c2f0e0b8d11`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(0)
			defer cancel()

			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if exportID != "" {
				rec, err := a.extractor.Lookup(ctx, exportID, userID)
				if err != nil {
					return fmt.Errorf("no such text found: %w", err)
				}
				if dir == "" {
					dir = opts.cfg.Storage.UploadDir
				}
				path, err := service.ExportText(rec, dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			records, err := a.extractor.History(ctx, userID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tOPERATION\tLANGUAGE\tIMAGE")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Operation, r.DetectedLanguage, r.ImagePath)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", defaultUser(), "User whose history is shown")
	cmd.Flags().StringVar(&exportID, "export", "", "Write the text of this record to text_<id>.txt")
	cmd.Flags().StringVar(&dir, "dir", "", "Export directory (default storage.upload_dir)")
	return cmd
}
