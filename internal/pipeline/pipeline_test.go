package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlift/textlift/internal/geometry"
	"github.com/textlift/textlift/internal/recognizer"
	"github.com/textlift/textlift/internal/testutil"
)

// mockEngine returns a fixed observation list, recording how it was called.
type mockEngine struct {
	observations []recognizer.Observation
	err          error
	calls        int
	lastWidth    int
	lastHeight   int
}

func (m *mockEngine) Recognize(_ context.Context, _ []byte, width, height int) ([]recognizer.Observation, error) {
	m.calls++
	m.lastWidth = width
	m.lastHeight = height
	if m.err != nil {
		return nil, m.err
	}
	return m.observations, nil
}

func obs(text string, left, bottom, right, top float64) recognizer.Observation {
	return recognizer.Observation{
		Text:       text,
		Confidence: 0.9,
		Corners: []geometry.Point{
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: bottom},
			{X: left, Y: bottom},
		},
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	pl, err := New(&mockEngine{})
	require.NoError(t, err)
	assert.NotNil(t, pl)
}

func TestPipelineProcess(t *testing.T) {
	img := testutil.PNGBytes(t, testutil.GenerateTextImage(testutil.TextImageConfig{
		Text: "hello", Width: 200, Height: 100,
	}))

	engine := &mockEngine{observations: []recognizer.Observation{
		obs("first line", 0.1, 0.8, 0.9, 0.9),
		obs("second line", 0.1, 0.6, 0.5, 0.7),
	}}
	pl, err := New(engine)
	require.NoError(t, err)

	res, err := pl.Process(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, 200, engine.lastWidth)
	assert.Equal(t, 100, engine.lastHeight)
	assert.Equal(t, "first line\nsecond line\n", res.Text)
	require.Len(t, res.Regions, 2)

	// First region: normalized (0.1..0.9)x(0.8..0.9) in a 200x100 image.
	r := res.Regions[0]
	assert.Equal(t, "first line", r.Text)
	assert.InDelta(t, 20, r.Box.X, 1e-9)
	assert.InDelta(t, 10, r.Box.Y, 1e-9)
	assert.InDelta(t, 160, r.Box.W, 1e-9)
	assert.InDelta(t, 10, r.Box.H, 1e-9)
	// Corners flipped into pixel space, top-left origin.
	assert.InDelta(t, 10, r.Corners[0].Y, 1e-9)
	assert.InDelta(t, 20, r.Corners[3].Y, 1e-9)
}

func TestPipelineProcessIdempotent(t *testing.T) {
	img := testutil.SamplePNG(t)
	engine := &mockEngine{observations: []recognizer.Observation{
		obs("alpha", 0.1, 0.5, 0.4, 0.6),
		obs("beta", 0.5, 0.5, 0.9, 0.6),
	}}
	pl, err := New(engine)
	require.NoError(t, err)

	first, err := pl.Process(context.Background(), img)
	require.NoError(t, err)
	second, err := pl.Process(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, engine.calls)
}

func TestPipelineProcessPreservesOrder(t *testing.T) {
	img := testutil.SamplePNG(t)
	permutations := [][]string{
		{"a", "b", "c"},
		{"c", "a", "b"},
		{"b", "c", "a"},
	}

	for _, perm := range permutations {
		observations := make([]recognizer.Observation, 0, len(perm))
		for i, text := range perm {
			y := 0.1 * float64(i+1)
			observations = append(observations, obs(text, 0.1, y, 0.9, y+0.05))
		}
		pl, err := New(&mockEngine{observations: observations})
		require.NoError(t, err)

		res, err := pl.Process(context.Background(), img)
		require.NoError(t, err)
		require.Len(t, res.Regions, len(perm))
		for i, text := range perm {
			assert.Equal(t, text, res.Regions[i].Text)
		}
	}
}

func TestPipelineProcessNoText(t *testing.T) {
	pl, err := New(&mockEngine{})
	require.NoError(t, err)

	res, err := pl.Process(context.Background(), testutil.SamplePNG(t))
	require.NoError(t, err)

	assert.Empty(t, res.Text)
	assert.Empty(t, res.Regions)
	assert.Positive(t, res.Width)
	assert.Positive(t, res.Height)
}

func TestPipelineProcessInvalidImage(t *testing.T) {
	engine := &mockEngine{}
	pl, err := New(engine)
	require.NoError(t, err)

	_, err = pl.Process(context.Background(), testutil.CorruptImage())
	var invalid *InvalidImageError
	require.ErrorAs(t, err, &invalid)
	// The engine must never see undecodable bytes.
	assert.Zero(t, engine.calls)
}

func TestPipelineProcessEngineFailure(t *testing.T) {
	engine := &mockEngine{err: errors.New("engine exploded")}
	pl, err := New(engine)
	require.NoError(t, err)

	_, err = pl.Process(context.Background(), testutil.SamplePNG(t))
	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
}

func TestRegionFromObservationMalformed(t *testing.T) {
	_, err := RegionFromObservation(recognizer.Observation{
		Text:    "bad",
		Corners: []geometry.Point{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}},
	}, 100, 100)

	var malformed *MalformedObservationError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Corners)
}

// For unrotated observations the box extents equal the normalized extents
// scaled by the image dimensions.
func TestRegionFromObservationUnrotatedExtents(t *testing.T) {
	tests := []struct {
		name                     string
		left, bottom, right, top float64
		width, height            int
	}{
		{"wide line", 0.0, 0.9, 1.0, 1.0, 640, 480},
		{"small box", 0.25, 0.25, 0.5, 0.5, 333, 777},
		{"full frame", 0.0, 0.0, 1.0, 1.0, 120, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := RegionFromObservation(obs("x", tt.left, tt.bottom, tt.right, tt.top), tt.width, tt.height)
			require.NoError(t, err)
			assert.InDelta(t, (tt.right-tt.left)*float64(tt.width), region.Box.W, 1e-9)
			assert.InDelta(t, (tt.top-tt.bottom)*float64(tt.height), region.Box.H, 1e-9)
			assert.InDelta(t, tt.left*float64(tt.width), region.Box.X, 1e-9)
			assert.InDelta(t, (1-tt.top)*float64(tt.height), region.Box.Y, 1e-9)
		})
	}
}
