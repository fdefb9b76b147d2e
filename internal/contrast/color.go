package contrast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor reports a color literal that is not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

// Color is an sRGB triple with 8 bits per channel.
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %w", ErrInvalidColor, err)
	}
	return fromColorful(c), nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// Hex renders the color as lower-case "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Luminance returns the WCAG relative luminance in [0, 1].
func Luminance(c Color) float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Ratio returns the WCAG contrast ratio between two colors, in [1, 21].
// The argument order does not matter.
func Ratio(a, b Color) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
