package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/cache"
	"github.com/ironsheep/imagetext/internal/config"
	"github.com/ironsheep/imagetext/internal/detection"
	"github.com/ironsheep/imagetext/internal/language"
	"github.com/ironsheep/imagetext/internal/logger"
	"github.com/ironsheep/imagetext/internal/ocr"
	"github.com/ironsheep/imagetext/internal/pipeline"
	"github.com/ironsheep/imagetext/internal/service"
	"github.com/ironsheep/imagetext/internal/store"
	"github.com/ironsheep/imagetext/internal/transform"
)

// app holds the long-lived backends built from configuration.
type app struct {
	engine      ocr.Engine
	identifier  *language.Identifier
	transformer *transform.Transformer
	pipeline    *pipeline.Pipeline
	extractor   *service.Extractor
	log         zerolog.Logger
}

func pipelineConfig(cfg config.SegmentConfig) (pipeline.Config, error) {
	order, err := detection.ParseOrder(cfg.Order)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Kernel:     detection.Kernel{Width: cfg.KernelWidth, Height: cfg.KernelHeight},
		Iterations: cfg.Iterations,
		Order:      order,
		MinArea:    cfg.MinArea,
		Padding:    cfg.Padding,
	}, nil
}

// newApp wires every backend named by cfg. Optional providers that are not
// configured are left out; the pipeline degrades as documented.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.WithComponent("app")

	pcfg, err := pipelineConfig(cfg.Segment)
	if err != nil {
		return nil, err
	}

	engine, err := ocr.NewEngine(ctx, ocr.Options{
		Backend:         cfg.OCR.Backend,
		TesseractPath:   cfg.OCR.TesseractPath,
		Language:        cfg.OCR.Language,
		PageSegMode:     cfg.OCR.PageSegMode,
		CredentialsFile: cfg.OCR.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}
	a := &app{engine: engine, log: log}

	a.identifier, err = language.NewIdentifier(language.Options{
		Candidates: cfg.Language.Candidates,
		Primary:    cfg.Language.Primary,
		MinLetters: cfg.Language.MinLetters,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	var translator transform.Translator
	if cfg.Translate.CredentialsFile != "" {
		gt, err := transform.NewGoogleTranslator(ctx, cfg.Translate.CredentialsFile)
		if err != nil {
			log.Warn().Err(err).Msg("Translation disabled")
		} else {
			translator = gt
		}
	}

	var summarizer transform.Summarizer
	if cfg.Summarize.APIKey != "" {
		s, err := transform.NewOpenAISummarizer(transform.SummarizerConfig{
			APIKey:    cfg.Summarize.APIKey,
			BaseURL:   cfg.Summarize.BaseURL,
			Model:     cfg.Summarize.Model,
			MaxTokens: cfg.Summarize.MaxTokens,
			MinTokens: cfg.Summarize.MinTokens,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Summarization disabled")
		} else {
			summarizer = s
		}
	}

	a.transformer = transform.New(translator, summarizer, transform.Config{
		TranslateTimeout: cfg.Translate.Timeout,
		SummarizeTimeout: cfg.Summarize.Timeout,
		MinSummaryTokens: cfg.Summarize.MinTokens,
	}, logger.WithComponent("transform"))

	a.pipeline, err = pipeline.New(pcfg, pipeline.Deps{
		Engine:      engine,
		Identifier:  a.identifier,
		Transformer: a.transformer,
		Logger:      logger.WithComponent("pipeline"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	st, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	c, err := openCache(ctx, cfg.Storage, log)
	if err != nil {
		st.Close()
		a.Close()
		return nil, err
	}
	a.extractor = service.New(a.pipeline, st, c, logger.WithComponent("service"))

	log.Debug().
		Str("engine", engine.Name()).
		Bool("translator", translator != nil).
		Bool("summarizer", summarizer != nil).
		Msg("Application wired")
	return a, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Debug().Msg("No database configured, history is kept in memory")
		return store.NewMemoryStore(), nil
	}
	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func openCache(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		return cache.NopCache{}, nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("Result cache disabled")
		return cache.NopCache{}, nil
	}
	return rc, nil
}

// Close releases the engine, store and cache.
func (a *app) Close() {
	var errs []error
	if a.extractor != nil {
		errs = append(errs, a.extractor.Close())
	}
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn().Err(err).Msg("Shutdown incomplete")
	}
}
