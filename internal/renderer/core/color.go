package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit colour or the terminal's default.
type Color struct {
	R, G, B uint8
	// Default selects the terminal's own colour; R, G and B are ignored.
	Default bool
}

// ColorDefault is the terminal's default colour.
var ColorDefault = Color{Default: true}

// Common colours.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorRed   = Color{R: 220, G: 50, B: 47}
	ColorGray  = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a colour from its components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	c, err := colorful.Hex(expandShortHex(hex))
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

// ParseColor parses hex, returning fallback when hex is empty or invalid.
func ParseColor(hex string, fallback Color) Color {
	if hex == "" {
		return fallback
	}
	c, err := ColorFromHex(hex)
	if err != nil {
		return fallback
	}
	return c
}

func expandShortHex(hex string) string {
	if len(hex) == 4 && hex[0] == '#' {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return hex
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c.Default
}

// Hex returns "#rrggbb", or "" for the default colour.
func (c Color) Hex() string {
	if c.Default {
		return ""
	}
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return c.Hex()
}

// Blend mixes c towards other by t in [0, 1] in Lab space. Blending with the
// default colour returns c unchanged.
func (c Color) Blend(other Color, t float64) Color {
	if c.Default || other.Default {
		return c
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), t))
}

// Lighten moves c towards white by amount.
func (c Color) Lighten(amount float64) Color {
	return c.Blend(ColorWhite, amount)
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if c.Default {
		return ColorDefault
	}
	l, _, _ := c.colorful().Lab()
	if l > 0.6 {
		return ColorBlack
	}
	return ColorWhite
}
