package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/textlift/textlift/internal/geometry"
)

// Tesseract recognizes text using the gosseract bindings. It emits one
// observation per text line with corners expressed in the normalized
// bottom-left convention of the Engine contract.
type Tesseract struct {
	languages []string
	clean     CleanOptions
}

// NewTesseract creates a tesseract-backed engine. Languages are tesseract
// language codes (e.g. "eng", "deu"); when empty the tesseract default is
// used.
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{
		languages: append([]string(nil), languages...),
		clean:     DefaultCleanOptions(),
	}
}

// Recognize runs tesseract over the image bytes. A gosseract client is not
// safe for concurrent reuse, so one client is created per call.
func (t *Tesseract) Recognize(ctx context.Context, data []byte, width, height int) ([]Observation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Re-encode through imaging so every decodable input format (and EXIF
	// orientation) reaches leptonica as plain PNG.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image for recognition: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode recognition input: %w", err)
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	observations := make([]Observation, 0, len(boxes))
	for _, box := range boxes {
		text := CleanText(box.Word, t.clean)
		if text == "" {
			continue
		}
		observations = append(observations, Observation{
			Text:       text,
			Confidence: box.Confidence / 100,
			Corners:    normalizedCorners(box.Box.Min.X, box.Box.Min.Y, box.Box.Max.X, box.Box.Max.Y, width, height),
		})
	}
	return observations, nil
}

// normalizedCorners converts a pixel-space, top-left-origin rectangle into
// the Engine contract's normalized bottom-left quadrilateral, ordered
// top-left, top-right, bottom-right, bottom-left.
func normalizedCorners(x1, y1, x2, y2, width, height int) []geometry.Point {
	w, h := float64(width), float64(height)
	left := float64(x1) / w
	right := float64(x2) / w
	top := 1 - float64(y1)/h
	bottom := 1 - float64(y2)/h
	return []geometry.Point{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
}
