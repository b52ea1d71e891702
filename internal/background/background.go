// Package background resolves a user-supplied background spec into a
// compositing instruction for the encoder: an opaque RGB fill, or
// transparency when the output container can carry it.
package background

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/normanking/mouthsync/internal/container"
)

// Transparent is the spec value that requests an alpha-preserving output
// instead of a colored fill.
const Transparent = "transparent"

// Instruction tells the encoder what to put behind the mouth images.
type Instruction struct {
	Transparent bool
	R, G, B     uint8
}

// Hex renders the fill color as RRGGBB. Meaningless for transparent
// instructions.
func (in Instruction) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", in.R, in.G, in.B)
}

// UnknownColorError reports a color name outside the closed table.
type UnknownColorError struct {
	Name string
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown background color %q", e.Name)
}

// InvalidHexError reports a malformed hex color code.
type InvalidHexError struct {
	Input string
}

func (e *InvalidHexError) Error() string {
	return fmt.Sprintf("invalid hex color %q (want 6 hex digits, # optional)", e.Input)
}

// IncompatibleFormatError reports a transparency request against a
// container that cannot carry alpha.
type IncompatibleFormatError struct {
	Format container.Format
}

func (e *IncompatibleFormatError) Error() string {
	return fmt.Sprintf("container %q cannot preserve transparency (use mov)", e.Format)
}

// namedColors is the closed table of accepted color names.
var namedColors = map[string][3]uint8{
	"white":   {0xFF, 0xFF, 0xFF},
	"black":   {0x00, 0x00, 0x00},
	"red":     {0xFF, 0x00, 0x00},
	"green":   {0x00, 0xFF, 0x00},
	"lime":    {0x00, 0xFF, 0x00},
	"blue":    {0x00, 0x00, 0xFF},
	"yellow":  {0xFF, 0xFF, 0x00},
	"cyan":    {0x00, 0xFF, 0xFF},
	"magenta": {0xFF, 0x00, 0xFF},
	"purple":  {0x80, 0x00, 0x80},
	"orange":  {0xFF, 0xA5, 0x00},
	"pink":    {0xFF, 0xC0, 0xCB},
	"brown":   {0xA5, 0x2A, 0x2A},
	"gold":    {0xFF, 0xD7, 0x00},
	"silver":  {0xC0, 0xC0, 0xC0},
	"navy":    {0x00, 0x00, 0x80},
	"teal":    {0x00, 0x80, 0x80},
	"olive":   {0x80, 0x80, 0x00},
	"maroon":  {0x80, 0x00, 0x00},
	"gray":    {0x80, 0x80, 0x80},
	"grey":    {0x80, 0x80, 0x80},
}

// Names returns the accepted color names, for help text.
func Names() []string {
	out := make([]string, 0, len(namedColors))
	for name := range namedColors {
		out = append(out, name)
	}
	return out
}

// Resolve turns a spec (named color, 6-digit hex with optional leading #, or
// "transparent") into a compositing instruction. Transparency against an
// opaque container fails here, before any frame work starts.
func Resolve(spec string, format container.Format) (Instruction, error) {
	s := strings.ToLower(strings.TrimSpace(spec))

	if s == Transparent {
		if !format.AlphaCapable() {
			return Instruction{}, &IncompatibleFormatError{Format: format}
		}
		return Instruction{Transparent: true}, nil
	}

	if rgb, ok := namedColors[s]; ok {
		return Instruction{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || !isHex(hex) {
		if strings.HasPrefix(s, "#") || isHex(hex) {
			return Instruction{}, &InvalidHexError{Input: spec}
		}
		return Instruction{}, &UnknownColorError{Name: spec}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Instruction{}, &InvalidHexError{Input: spec}
	}
	return Instruction{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
