package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLen bounds node ids read from graph files.
const MaxNodeIDLen = 256

// ValidateNodeID rejects ids that cannot serve as label element ids and SVG
// attributes: empty, longer than MaxNodeIDLen bytes, or holding control
// characters.
func ValidateNodeID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	case len(id) > MaxNodeIDLen:
		return New(ErrCodeInvalidNodeID, "node id %.16q... exceeds %d bytes", id, MaxNodeIDLen)
	case strings.IndexFunc(id, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidNodeID, "node id %q contains control characters", id)
	}
	return nil
}

// ValidateColor performs a cheap syntactic check on a CSS-style hex colour.
// Accepted forms are #rgb and #rrggbb.
func ValidateColor(c string) error {
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return New(ErrCodeInvalidConfig, "invalid colour %q (want #rgb or #rrggbb)", c)
	}
	for _, r := range c[1:] {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidConfig, "invalid colour %q (want #rgb or #rrggbb)", c)
		}
	}
	return nil
}
