package timer

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLabelLength is the maximum rune count of a session label
const MaxLabelLength = 80

// ErrLabelTooLong is returned when a label exceeds MaxLabelLength runes
var ErrLabelTooLong = errors.New("label exceeds maximum length")

// ErrLabelControlChars is returned when a label contains control characters
var ErrLabelControlChars = errors.New("label contains control characters")

// NormalizeLabel normalizes a user-supplied session label.
// Applies NFKC normalization, trims surrounding whitespace and rejects
// control characters. An empty label is allowed and means "no label".
func NormalizeLabel(raw string) (string, error) {
	label := strings.TrimSpace(norm.NFKC.String(raw))
	if label == "" {
		return "", nil
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return "", ErrLabelControlChars
		}
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return "", ErrLabelTooLong
	}
	return label, nil
}
