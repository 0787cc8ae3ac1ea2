package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/imagetext/internal/detection"
	"github.com/ironsheep/imagetext/internal/imaging"
)

// cropBorder is the white margin added around each crop.
const cropBorder = 10

// Fragment is the text recognized in one region.
type Fragment struct {
	Region detection.Region `json:"region"`
	Text   string           `json:"text"`
}

// RegionFailure records a region whose recognition failed and was skipped.
type RegionFailure struct {
	Index  int
	Region detection.Region
	Err    error
}

// Extraction is the assembled output of recognizing a set of regions.
type Extraction struct {
	// Text is every fragment followed by a newline, in region order.
	Text      string
	Fragments []Fragment
	Failures  []RegionFailure
}

// Recognizer runs an Engine over the regions of a binary image.
type Recognizer struct {
	engine  Engine
	padding int
	log     zerolog.Logger
}

// NewRecognizer creates a Recognizer. padding grows each region on every side
// before cropping.
func NewRecognizer(engine Engine, padding int, log zerolog.Logger) *Recognizer {
	if padding < 0 {
		padding = 0
	}
	return &Recognizer{engine: engine, padding: padding, log: log}
}

// Recognize crops each region from bin and recognizes it in isolation.
//
// bin must be the binarized image, not the dilated segmentation mask: dilation
// thickens strokes until glyphs are unreadable. Every recognized fragment is
// followed by "\n", including the last. A region whose recognition fails
// with ErrRecognition is skipped and recorded in Failures. ErrEngineUnavailable
// and context cancellation abort the whole call.
func (r *Recognizer) Recognize(ctx context.Context, bin *imaging.Binary, regions []detection.Region) (*Extraction, error) {
	if r.engine == nil {
		return nil, newError("none", "Recognize", ErrEngineUnavailable, "no engine configured")
	}

	src := bin.Image()
	bounds := bin.Bounds()
	out := &Extraction{Fragments: make([]Fragment, 0, len(regions))}
	var text strings.Builder

	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		crop, err := imaging.CropRegion(src, region.Pad(r.padding, bounds).Rect(), imaging.CropOptions{Border: cropBorder})
		if err != nil {
			r.skip(out, i, region, fmt.Errorf("%w: %v", ErrRecognition, err))
			continue
		}

		fragment, err := r.engine.Recognize(ctx, crop)
		if err != nil {
			if errors.Is(err, ErrEngineUnavailable) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.skip(out, i, region, err)
			continue
		}

		text.WriteString(fragment)
		text.WriteString("\n")
		out.Fragments = append(out.Fragments, Fragment{Region: region, Text: fragment})
	}

	out.Text = text.String()
	r.log.Debug().
		Str("engine", r.engine.Name()).
		Int("regions", len(regions)).
		Int("skipped", len(out.Failures)).
		Msg("Recognition complete")
	return out, nil
}

func (r *Recognizer) skip(out *Extraction, index int, region detection.Region, err error) {
	r.log.Warn().
		Err(err).
		Int("region", index).
		Stringer("box", region).
		Msg("Skipping region")
	out.Failures = append(out.Failures, RegionFailure{Index: index, Region: region, Err: err})
}
