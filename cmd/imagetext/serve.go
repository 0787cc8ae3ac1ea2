package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP (Model Context Protocol) server. Requests are read as JSON-RPC
lines from stdin and responses written to stdout, so logging always goes to
stderr or a file. Configure the binary in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(0)
			defer cancel()

			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			log := logger.WithComponent("server")
			log.Info().Str("version", Version).Str("engine", a.engine.Name()).Msg("MCP server starting")

			srv := server.New(server.Deps{
				Extractor:   a.extractor,
				Pipeline:    a.pipeline,
				Identifier:  a.identifier,
				Transformer: a.transformer,
				Logger:      log,
				UserID:      userID,
				Version:     Version,
			})
			return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "mcp", "User extractions are recorded for")
	return cmd
}
