package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     CleanOptions
		expected string
	}{
		{
			name:     "empty string unchanged",
			input:    "",
			opts:     DefaultCleanOptions(),
			expected: "",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  Hello   World \t",
			opts:     DefaultCleanOptions(),
			expected: "Hello World",
		},
		{
			name:     "zero width runes removed",
			input:    "Hel\u200blo\ufeff",
			opts:     DefaultCleanOptions(),
			expected: "Hello",
		},
		{
			name:     "control characters removed",
			input:    "Hel\x00lo\x07",
			opts:     DefaultCleanOptions(),
			expected: "Hello",
		},
		{
			name:     "NFC composes decomposed umlaut",
			input:    "über",
			opts:     DefaultCleanOptions(),
			expected: "über",
		},
		{
			name:     "disabled options leave text alone",
			input:    "  raw ​ text  ",
			opts:     CleanOptions{},
			expected: "  raw ​ text  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input, tt.opts))
		})
	}
}

func TestNormalizedCorners(t *testing.T) {
	// A 100x40 pixel line at (10,20) in a 200x100 image.
	corners := normalizedCorners(10, 20, 110, 60, 200, 100)

	assert.Len(t, corners, 4)
	// Top-left, top-right, bottom-right, bottom-left in bottom-left space.
	assert.InDelta(t, 0.05, corners[0].X, 1e-9)
	assert.InDelta(t, 0.8, corners[0].Y, 1e-9)
	assert.InDelta(t, 0.55, corners[1].X, 1e-9)
	assert.InDelta(t, 0.8, corners[1].Y, 1e-9)
	assert.InDelta(t, 0.55, corners[2].X, 1e-9)
	assert.InDelta(t, 0.4, corners[2].Y, 1e-9)
	assert.InDelta(t, 0.05, corners[3].X, 1e-9)
	assert.InDelta(t, 0.4, corners[3].Y, 1e-9)

	// Top corners sit above bottom corners in normalized (upward) space.
	assert.Greater(t, corners[0].Y, corners[3].Y)
}
