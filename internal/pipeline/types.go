package pipeline

import "github.com/textlift/textlift/internal/geometry"

// Region is the normalized, public form of one observation: the recognized
// text with its geometry re-expressed in pixel coordinates, top-left origin.
// Immutable once created.
type Region struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
	Box        geometry.Rect `json:"box"`
	Corners    geometry.Quad `json:"corners"`
}

// Result aggregates the recognition output for one image.
type Result struct {
	// Text is each region's text followed by a newline, in the order the
	// engine emitted the regions. Empty when no text was detected.
	Text    string   `json:"text"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Regions []Region `json:"regions"`
}
