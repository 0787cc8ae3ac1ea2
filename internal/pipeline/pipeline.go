// Package pipeline runs the full image-to-text extraction:
// decode → binarize → dilate → segment → recognize → detect language → transform.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/detection"
	"github.com/ironsheep/imagetext/internal/imaging"
	"github.com/ironsheep/imagetext/internal/language"
	"github.com/ironsheep/imagetext/internal/ocr"
	"github.com/ironsheep/imagetext/internal/transform"
)

// Stage names one step of a run.
type Stage string

const (
	StageLoad      Stage = "load"
	StageBinarize  Stage = "binarize"
	StageDilate    Stage = "dilate"
	StageSegment   Stage = "segment"
	StageRecognize Stage = "recognize"
	StageLanguage  Stage = "language"
	StageTransform Stage = "transform"
)

// StageError is the single failure type returned by Run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Warning is a recoverable degradation reported with a successful result.
type Warning struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// Result is the output of one run.
type Result struct {
	Text             string              `json:"text"`
	DetectedLanguage string              `json:"detected_language"`
	Operation        transform.Operation `json:"operation"`
	Label            string              `json:"label"`
	Regions          []detection.Region  `json:"regions"`
	Fragments        []ocr.Fragment      `json:"fragments,omitempty"`
	Skipped          int                 `json:"skipped"`
	Warnings         []Warning           `json:"warnings,omitempty"`
	Duration         time.Duration       `json:"duration"`
}

// Config holds the segmentation settings. It is copied into the Pipeline and
// never changes afterwards.
type Config struct {
	Kernel     detection.Kernel
	Iterations int
	Order      detection.Order
	MinArea    int
	Padding    int
}

// DefaultConfig returns a 5×5 kernel, one iteration and reading order.
func DefaultConfig() Config {
	return Config{
		Kernel:     detection.DefaultKernel,
		Iterations: 1,
		Order:      detection.OrderReading,
		Padding:    2,
	}
}

// Validate rejects settings that cannot produce a segmentation.
func (c Config) Validate() error {
	if err := c.Kernel.Validate(); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if _, err := detection.ParseOrder(string(c.Order)); err != nil {
		return err
	}
	if c.MinArea < 0 || c.Padding < 0 {
		return errors.New("min area and padding must not be negative")
	}
	return nil
}

// Deps are the long-lived backends shared by every run. Identifier and
// Transformer are optional: without an identifier the language is reported
// as unknown, without a transformer only view is supported.
type Deps struct {
	Engine      ocr.Engine
	Identifier  *language.Identifier
	Transformer *transform.Transformer
	Logger      zerolog.Logger
}

// Pipeline is safe for concurrent use; runs share only Deps.
type Pipeline struct {
	cfg        Config
	recognizer *ocr.Recognizer
	identifier *language.Identifier
	transform  *transform.Transformer
	log        zerolog.Logger
}

// New validates cfg and wires the pipeline.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("pipeline requires an OCR engine: %w", ocr.ErrEngineUnavailable)
	}

	tr := deps.Transformer
	if tr == nil {
		tr = transform.New(nil, nil, transform.DefaultConfig(), deps.Logger)
	}

	return &Pipeline{
		cfg:        cfg,
		recognizer: ocr.NewRecognizer(deps.Engine, cfg.Padding, deps.Logger),
		identifier: deps.Identifier,
		transform:  tr,
		log:        deps.Logger,
	}, nil
}

// RunFile opens path and runs the pipeline on it.
func (p *Pipeline) RunFile(ctx context.Context, path string, op transform.Operation) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: &imaging.DecodeError{Source: path, Err: err}}
	}
	defer f.Close()
	return p.Run(ctx, f, op)
}

// Run extracts text from the image in r and applies op.
//
// Stages run strictly in order. Any fatal failure returns a *StageError and
// no Result. Recoverable problems (skipped regions, unknown language,
// untranslated text) are listed in Result.Warnings.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, op transform.Operation) (*Result, error) {
	start := time.Now()
	res := &Result{Operation: op, Label: op.Label()}

	bin, regions, err := p.segment(r)
	if err != nil {
		return nil, err
	}
	res.Regions = regions

	// Crops come from bin; the dilated mask is only a segmentation aid.
	extraction, err := p.recognizer.Recognize(ctx, bin, res.Regions)
	if err != nil {
		return nil, p.fail(StageRecognize, err)
	}
	res.Fragments = extraction.Fragments
	res.Skipped = len(extraction.Failures)
	for _, f := range extraction.Failures {
		res.warn(StageRecognize, fmt.Sprintf("region %d %v skipped: %v", f.Index, f.Region, f.Err))
	}

	res.DetectedLanguage = p.detectLanguage(res, extraction.Text)

	out, err := p.transform.Apply(ctx, extraction.Text, op)
	if err != nil {
		return nil, p.fail(StageTransform, err)
	}
	if out.Warning != nil {
		res.warn(StageTransform, out.Warning.Error())
	}
	res.Text = out.Text
	res.Duration = time.Since(start)

	p.log.Info().
		Str("operation", op.String()).
		Str("language", res.DetectedLanguage).
		Int("regions", len(res.Regions)).
		Int("skipped", res.Skipped).
		Dur("duration", res.Duration).
		Msg("Extraction complete")
	return res, nil
}

// DetectRegions runs only the segmentation stages and returns the text
// regions found in the image, without recognizing them.
func (p *Pipeline) DetectRegions(r io.Reader) ([]detection.Region, error) {
	_, regions, err := p.segment(r)
	return regions, err
}

func (p *Pipeline) segment(r io.Reader) (*imaging.Binary, []detection.Region, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, nil, p.fail(StageLoad, err)
	}
	p.log.Debug().Str("stage", string(StageLoad)).Stringer("bounds", img.Bounds()).Msg("Image decoded")

	bin := imaging.Preprocess(img)
	p.log.Debug().Str("stage", string(StageBinarize)).Int("ink", bin.Count()).Msg("Image binarized")

	dilated, err := detection.Dilate(bin, p.cfg.Kernel, p.cfg.Iterations)
	if err != nil {
		return nil, nil, p.fail(StageDilate, err)
	}

	regions := detection.Segment(dilated, detection.Options{Order: p.cfg.Order, MinArea: p.cfg.MinArea})
	p.log.Debug().Str("stage", string(StageSegment)).Int("regions", len(regions)).Msg("Regions segmented")
	return bin, regions, nil
}

// detectLanguage runs on the recognized text, before any transform.
func (p *Pipeline) detectLanguage(res *Result, text string) string {
	if p.identifier == nil {
		res.warn(StageLanguage, "no language identifier configured")
		return language.Unknown
	}
	code, err := p.identifier.Detect(text)
	if err != nil {
		p.log.Warn().Err(err).Str("stage", string(StageLanguage)).Msg("Language unknown")
		res.warn(StageLanguage, err.Error())
		return language.Unknown
	}
	return code
}

func (p *Pipeline) fail(stage Stage, err error) error {
	p.log.Debug().Err(err).Str("stage", string(stage)).Msg("Stage failed")
	return &StageError{Stage: stage, Err: err}
}

func (r *Result) warn(stage Stage, msg string) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: msg})
}
