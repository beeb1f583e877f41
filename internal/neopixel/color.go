package neopixel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a single RGB pixel value.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromUint32 unpacks a 0xRRGGBB value as used by the ws281x channel buffer.
func FromUint32(c uint32) Color {
	return Color{
		R: uint8((c >> 16) & 0xff),
		G: uint8((c >> 8) & 0xff),
		B: uint8(c & 0xff),
	}
}

func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) IsBlack() bool {
	return c == Black
}

// Scale returns the same color with every channel multiplied by factor. The factor is clamped to [0, 1], so
// the result is never brighter than the input.
func (c Color) Scale(factor float64) Color {
	if factor >= 1 {
		return c
	}
	if factor <= 0 {
		return Black
	}

	return Color{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Uint32())
}

// ParseColor reads a "#rrggbb" (or "#rgb") hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return RGB(r, g, b), nil
}

// UnmarshalYAML accepts a hex string, a {r, g, b} mapping or an [r, g, b] sequence.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var channels []uint8
		if err := value.Decode(&channels); err != nil {
			return err
		}
		if len(channels) != 3 {
			return fmt.Errorf("line %d: color needs exactly 3 channels, got %d", value.Line, len(channels))
		}
		*c = RGB(channels[0], channels[1], channels[2])
		return nil
	}

	type plain Color
	return value.Decode((*plain)(c))
}

// UnmarshalJSON accepts either a hex string or a {"r", "g", "b"} object.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Color
	return json.Unmarshal(data, (*plain)(c))
}
