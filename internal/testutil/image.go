// Package testutil provides synthetic image fixtures for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextImageConfig holds configuration for generating test images.
type TextImageConfig struct {
	Text       string
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	Rotation   float64 // rotation in degrees
}

// DefaultTextImageConfig returns a default configuration for test images.
func DefaultTextImageConfig() TextImageConfig {
	return TextImageConfig{
		Text:       "Sample Text",
		Width:      320,
		Height:     240,
		Background: color.White,
		Foreground: color.Black,
	}
}

// GenerateTextImage creates a synthetic image with the given text drawn in
// the center using a basic bitmap font.
func GenerateTextImage(cfg TextImageConfig) image.Image {
	if cfg.Background == nil {
		cfg.Background = color.White
	}
	if cfg.Foreground == nil {
		cfg.Foreground = color.Black
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, cfg.Text).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cfg.Foreground),
		Face: face,
		Dot: fixed.P(
			(cfg.Width-textWidth)/2,
			cfg.Height/2,
		),
	}
	d.DrawString(cfg.Text)

	if cfg.Rotation != 0 {
		return imaging.Rotate(img, cfg.Rotation, cfg.Background)
	}
	return img
}

// PNGBytes encodes an image to PNG bytes, failing the test on error.
func PNGBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// JPEGBytes encodes an image to JPEG bytes, failing the test on error.
func JPEGBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

// SamplePNG returns a small decodable PNG with default text.
func SamplePNG(t *testing.T) []byte {
	t.Helper()
	return PNGBytes(t, GenerateTextImage(DefaultTextImageConfig()))
}

// CorruptImage returns bytes that no image decoder accepts.
func CorruptImage() []byte {
	return []byte("this is definitely not an image")
}
