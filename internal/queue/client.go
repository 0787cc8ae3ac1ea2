package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/service"
)

// Enqueuer submits extraction tasks.
type Enqueuer struct {
	client *asynq.Client
	queue  string
}

// NewEnqueuer connects to the Redis instance at redisURL.
func NewEnqueuer(redisURL, queueName string) (*Enqueuer, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if queueName == "" {
		return nil, errors.New("queue name is required")
	}
	return &Enqueuer{client: asynq.NewClient(opt), queue: queueName}, nil
}

// Enqueue submits req and returns the task ID.
func (e *Enqueuer) Enqueue(ctx context.Context, req service.Request) (string, error) {
	task, err := NewExtractTask(req)
	if err != nil {
		return "", err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(e.queue))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}
	return info.ID, nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	RedisURL    string
	QueueName   string
	Concurrency int
}

// Worker consumes extraction tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    zerolog.Logger
}

// NewWorker creates a worker that dispatches TypeExtractImage to handler.
func NewWorker(cfg WorkerConfig, handler *Handler, log zerolog.Logger) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.QueueName == "" {
		return nil, errors.New("queue name is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			cfg.QueueName: 10,
			"default":     1,
		},
		RetryDelayFunc: retryDelay,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Warn().Err(err).Str("type", task.Type()).Msg("Task processing error")
		}),
		Logger: asynqLogger{log: log},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeExtractImage, handler)

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run processes tasks until ctx is canceled, then shuts down gracefully.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting queue worker")
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	<-ctx.Done()
	w.log.Info().Msg("Stopping queue worker")
	w.server.Shutdown()
	return nil
}

// retryDelay backs off exponentially from 5s, capped at one minute.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	delay := time.Duration(5*(1<<uint(n))) * time.Second
	return min(delay, time.Minute)
}

// asynqLogger routes asynq's internal logging to zerolog.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
