package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/queue"
	"github.com/ironsheep/imagetext/internal/service"
)

func newWorkerCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued extraction tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cfg.Storage.RedisURL == "" {
				return errors.New("worker requires REDIS_URL (storage.redis_url)")
			}

			ctx, cancel := signalContext(0)
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			log := logger.WithComponent("worker")
			w, err := queue.NewWorker(queue.WorkerConfig{
				RedisURL:    cfg.Storage.RedisURL,
				QueueName:   cfg.Queue.Name,
				Concurrency: cfg.Queue.Concurrency,
			}, queue.NewHandler(a.extractor, log), log)
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}
}

func newEnqueueCmd(opts *options) *cobra.Command {
	var flags operationFlags

	cmd := &cobra.Command{
		Use:   "enqueue <image>...",
		Short: "Queue images for extraction by a worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cfg.Storage.RedisURL == "" {
				return errors.New("enqueue requires REDIS_URL (storage.redis_url)")
			}
			op, err := flags.parse()
			if err != nil {
				return err
			}

			enq, err := queue.NewEnqueuer(cfg.Storage.RedisURL, cfg.Queue.Name)
			if err != nil {
				return err
			}
			defer enq.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			for _, path := range args {
				id, err := enq.Enqueue(ctx, service.Request{UserID: flags.userID, ImagePath: path, Operation: op})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
