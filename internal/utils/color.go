package utils

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color")

// NormalizeHexColor converts "#abc", "abc", "#aabbcc" and "aabbcc" to the
// canonical upper-case "#AABBCC" form.
// Example: "#4ecdc4" -> "#4ECDC4"
func NormalizeHexColor(color string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
	}

	return "#" + strings.ToUpper(hex), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
