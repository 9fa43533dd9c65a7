// Package pipeline orchestrates one recognition pass over raw image bytes:
// decode dimensions, call the external engine once, normalize the returned
// observations into pixel space, and assemble the final result.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/textlift/textlift/internal/recognizer"
)

// Pipeline drives one image through recognition and normalization. It holds
// no mutable state beyond the engine handle and is safe for concurrent use
// as long as the engine is.
type Pipeline struct {
	engine recognizer.Engine
}

// New creates a pipeline backed by the given engine.
func New(engine recognizer.Engine) (*Pipeline, error) {
	if engine == nil {
		return nil, errors.New("pipeline: engine is required")
	}
	return &Pipeline{engine: engine}, nil
}

// Process runs recognition over raw image bytes and returns the assembled
// result. An image in which no text is detected is a success with zero
// regions, not an error. The engine is invoked exactly once; callers needing
// retry semantics wrap this method.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*Result, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &InvalidImageError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &InvalidImageError{Err: fmt.Errorf("degenerate dimensions %dx%d", cfg.Width, cfg.Height)}
	}

	observations, err := p.engine.Recognize(ctx, data, cfg.Width, cfg.Height)
	if err != nil {
		return nil, &EngineError{Err: err}
	}

	// Regions keep the engine's emission order; no reordering, no dedup.
	regions := make([]Region, 0, len(observations))
	var text strings.Builder
	for _, obs := range observations {
		region, err := RegionFromObservation(obs, cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
		text.WriteString(region.Text)
		text.WriteByte('\n')
	}

	return &Result{
		Text:    text.String(),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Regions: regions,
	}, nil
}
