// Package recognizer defines the boundary to the external text-recognition
// capability and provides the tesseract-backed default engine.
package recognizer

import (
	"context"

	"github.com/textlift/textlift/internal/geometry"
)

// Observation is one recognized text line as emitted by an engine, before
// geometric normalization. Corners are in normalized coordinate space
// ([0,1] relative to image dimensions, origin bottom-left, y increasing
// upward), ordered top-left, top-right, bottom-right, bottom-left.
type Observation struct {
	Text       string
	Confidence float64
	Corners    []geometry.Point
}

// Engine is the external recognition capability. Implementations receive
// raw image bytes together with the decoded pixel dimensions and return
// observations in exactly the order the engine emitted them. A nil or empty
// slice with a nil error means no text was detected.
//
// Recognition is a single best-effort attempt; engines do not retry.
type Engine interface {
	Recognize(ctx context.Context, data []byte, width, height int) ([]Observation, error)
}
