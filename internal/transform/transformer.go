// Package transform post-processes extracted text: passthrough, translation
// or summarization, each delegated to an external provider.
package transform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Translator translates text into a target language code.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Summarizer produces a short summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config bounds provider calls.
type Config struct {
	TranslateTimeout time.Duration
	SummarizeTimeout time.Duration

	// MinSummaryTokens is the shortest input, in whitespace-separated tokens,
	// that is sent to the summarizer. Shorter input is returned unchanged.
	MinSummaryTokens int
}

// DefaultConfig returns the provider bounds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		TranslateTimeout: 30 * time.Second,
		SummarizeTimeout: 60 * time.Second,
		MinSummaryTokens: 30,
	}
}

// Output is the transformed text plus any recoverable degradation.
type Output struct {
	Text string

	// Warning is set when the operation degraded to passthrough, for
	// example ErrTranslationUnavailable.
	Warning error
}

// Transformer applies an Operation. Either provider may be nil.
type Transformer struct {
	translator Translator
	summarizer Summarizer
	cfg        Config
	log        zerolog.Logger
}

// New creates a Transformer.
func New(translator Translator, summarizer Summarizer, cfg Config, log zerolog.Logger) *Transformer {
	return &Transformer{
		translator: translator,
		summarizer: summarizer,
		cfg:        cfg,
		log:        log,
	}
}

// Apply runs op on text.
func (t *Transformer) Apply(ctx context.Context, text string, op Operation) (Output, error) {
	switch op.Kind {
	case KindView:
		return Output{Text: text}, nil
	case KindTranslate:
		return t.translate(ctx, text, op.Target)
	case KindSummarize:
		return t.summarize(ctx, text)
	default:
		return Output{}, fmt.Errorf("unsupported operation %v", op.Kind)
	}
}

func (t *Transformer) translate(ctx context.Context, text, target string) (Output, error) {
	if target == "" {
		return Output{}, ErrTargetLanguageRequired
	}
	if t.translator == nil {
		t.log.Warn().Str("target", target).Msg("No translator configured, returning text unchanged")
		return Output{Text: text, Warning: fmt.Errorf("%w: no translator configured", ErrTranslationUnavailable)}, nil
	}

	ctx, cancel := withTimeout(ctx, t.cfg.TranslateTimeout)
	defer cancel()

	translated, err := t.translator.Translate(ctx, text, target)
	if err != nil {
		t.log.Warn().Err(err).Str("target", target).Msg("Translation failed, returning text unchanged")
		return Output{Text: text, Warning: fmt.Errorf("%w: %v", ErrTranslationUnavailable, err)}, nil
	}
	return Output{Text: translated}, nil
}

func (t *Transformer) summarize(ctx context.Context, text string) (Output, error) {
	if tokens := len(strings.Fields(text)); tokens < t.cfg.MinSummaryTokens {
		t.log.Debug().
			Int("tokens", tokens).
			Int("min_tokens", t.cfg.MinSummaryTokens).
			Msg("Text below minimum summary length, returning unchanged")
		return Output{Text: text}, nil
	}
	if t.summarizer == nil {
		return Output{}, fmt.Errorf("%w: no summarizer configured", ErrSummarizationUnavailable)
	}

	ctx, cancel := withTimeout(ctx, t.cfg.SummarizeTimeout)
	defer cancel()

	summary, err := t.summarizer.Summarize(ctx, text)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrSummarizationUnavailable, err)
	}
	return Output{Text: summary}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
