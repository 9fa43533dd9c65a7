package recognizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanOptions controls text post-processing of recognized lines.
type CleanOptions struct {
	NormalizeNFC       bool // apply Unicode NFC normalization
	CollapseWhitespace bool // collapse runs of whitespace to a single space
	Trim               bool // trim leading/trailing whitespace
	RemoveControlChars bool // drop non-printable control characters
	RemoveZeroWidth    bool // drop zero-width spaces/joiners
}

// DefaultCleanOptions returns sensible defaults for OCR output.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		NormalizeNFC:       true,
		CollapseWhitespace: true,
		Trim:               true,
		RemoveControlChars: true,
		RemoveZeroWidth:    true,
	}
}

// CleanText applies normalization and cleaning to one recognized line.
func CleanText(s string, opts CleanOptions) string {
	if s == "" {
		return s
	}
	if opts.NormalizeNFC {
		s = norm.NFC.String(s)
	}
	if opts.RemoveZeroWidth || opts.RemoveControlChars {
		s = strings.Map(func(r rune) rune {
			if opts.RemoveZeroWidth && isZeroWidth(r) {
				return -1
			}
			if opts.RemoveControlChars && unicode.IsControl(r) && r != '\n' && r != '\t' {
				return -1
			}
			return r
		}, s)
	}
	if opts.CollapseWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if opts.Trim {
		s = strings.TrimSpace(s)
	}
	return s
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}
