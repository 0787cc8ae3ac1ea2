package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imagetext/internal/pipeline"
	"github.com/ironsheep/imagetext/internal/transform"
)

func TestKey(t *testing.T) {
	img := []byte("fake image bytes")

	view := Key(img, transform.View())
	assert.True(t, strings.HasPrefix(view, keyPrefix))
	assert.True(t, strings.HasSuffix(view, ":view"))
	assert.Equal(t, view, Key([]byte("fake image bytes"), transform.View()), "stable for equal input")

	assert.NotEqual(t, view, Key(img, transform.Summarize()))
	assert.NotEqual(t, Key(img, transform.Translate("fr")), Key(img, transform.Translate("de")))
	assert.NotEqual(t, view, Key([]byte("other bytes"), transform.View()))
}

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &pipeline.Result{Text: "HELLO\n"}))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Close())
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url", 0)
	assert.Error(t, err)
}
