package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/ocr"
	"github.com/ironsheep/imagetext/internal/service"
	"github.com/ironsheep/imagetext/internal/store"
	"github.com/ironsheep/imagetext/internal/transform"
)

type fakeExtractor struct {
	got service.Request
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, req service.Request) (*service.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.Response{Record: &store.Record{ID: "rec-1", UserID: req.UserID}}, nil
}

func TestNewExtractTask(t *testing.T) {
	req := service.Request{UserID: "alice", ImagePath: "/data/scan.png", Operation: transform.Translate("fr")}

	task, err := NewExtractTask(req)
	require.NoError(t, err)
	assert.Equal(t, TypeExtractImage, task.Type())

	var decoded service.Request
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, req, decoded)
}

func TestHandler_ProcessTask(t *testing.T) {
	fake := &fakeExtractor{}
	h := NewHandler(fake, logger.Nop())

	task, err := NewExtractTask(service.Request{UserID: "alice", ImagePath: "/data/scan.png", Operation: transform.Summarize()})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Equal(t, "alice", fake.got.UserID)
	assert.Equal(t, transform.Summarize(), fake.got.Operation)
}

func TestHandler_ProcessTask_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantRetry bool
	}{
		{"unsupported file", service.ErrUnsupportedFile, false},
		{"decode", &imaging.DecodeError{Source: "x.png", Err: errors.New("bad header")}, false},
		{"engine unavailable", ocr.ErrEngineUnavailable, true},
		{"timeout", context.DeadlineExceeded, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeExtractor{err: tt.err}, logger.Nop())
			task, err := NewExtractTask(service.Request{UserID: "alice", ImagePath: "/data/scan.png"})
			require.NoError(t, err)

			err = h.ProcessTask(context.Background(), task)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, !tt.wantRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestHandler_BadPayload(t *testing.T) {
	h := NewHandler(&fakeExtractor{}, logger.Nop())
	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeExtractImage, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 5*time.Second, retryDelay(0, nil, nil))
	assert.Equal(t, 20*time.Second, retryDelay(2, nil, nil))
	assert.Equal(t, time.Minute, retryDelay(6, nil, nil))
}

func TestConstructors_Validation(t *testing.T) {
	_, err := NewEnqueuer("://bad", "imagetext")
	assert.Error(t, err)

	_, err = NewEnqueuer("redis://localhost:6379", "")
	assert.Error(t, err)

	_, err = NewWorker(WorkerConfig{RedisURL: "redis://localhost:6379", QueueName: "imagetext"}, nil, logger.Nop())
	assert.Error(t, err)
}
