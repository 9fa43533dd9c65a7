package pipeline

import (
	"github.com/textlift/textlift/internal/geometry"
	"github.com/textlift/textlift/internal/recognizer"
)

// RegionFromObservation converts one raw observation into a Region using the
// enclosing image's pixel dimensions. Pure function of its inputs; fails
// only when the observation carries fewer than four corner points.
func RegionFromObservation(obs recognizer.Observation, width, height int) (Region, error) {
	if len(obs.Corners) < 4 {
		return Region{}, &MalformedObservationError{Corners: len(obs.Corners)}
	}

	var quad geometry.Quad
	for i := range quad {
		quad[i] = geometry.Denormalize(obs.Corners[i], width, height)
	}

	return Region{
		Text:       obs.Text,
		Confidence: obs.Confidence,
		Box:        quad.BoundingRect(),
		Corners:    quad,
	}, nil
}
