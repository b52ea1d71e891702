package background

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/mouthsync/internal/container"
)

func TestResolve_NamedColors(t *testing.T) {
	tests := []struct {
		spec    string
		r, g, b uint8
	}{
		{spec: "white", r: 0xFF, g: 0xFF, b: 0xFF},
		{spec: "black"},
		{spec: "red", r: 0xFF},
		{spec: "green", g: 0xFF},
		{spec: "lime", g: 0xFF},
		{spec: "navy", b: 0x80},
		{spec: "orange", r: 0xFF, g: 0xA5},
		{spec: "grey", r: 0x80, g: 0x80, b: 0x80},
		{spec: "gray", r: 0x80, g: 0x80, b: 0x80},
		{spec: "YELLOW", r: 0xFF, g: 0xFF}, // case-insensitive
		{spec: "  teal  ", g: 0x80, b: 0x80},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			in, err := Resolve(tt.spec, container.MP4)
			require.NoError(t, err)
			assert.False(t, in.Transparent)
			assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{in.R, in.G, in.B})
		})
	}
}

func TestResolve_HexCodes(t *testing.T) {
	tests := []struct {
		spec    string
		r, g, b uint8
	}{
		{spec: "FF0000", r: 0xFF},
		{spec: "#FF0000", r: 0xFF},
		{spec: "00ff00", g: 0xFF},
		{spec: "#123abc", r: 0x12, g: 0x3A, b: 0xBC},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			in, err := Resolve(tt.spec, container.MP4)
			require.NoError(t, err)
			assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{in.R, in.G, in.B})
		})
	}
}

func TestResolve_InvalidHex(t *testing.T) {
	for _, spec := range []string{"#FF00", "#FF00000", "#GG0000", "12345", "1234567"} {
		t.Run(spec, func(t *testing.T) {
			_, err := Resolve(spec, container.MP4)
			var invalid *InvalidHexError
			require.ErrorAs(t, err, &invalid, "spec %q", spec)
		})
	}
}

func TestResolve_UnknownColorName(t *testing.T) {
	_, err := Resolve("blurple", container.MP4)

	var unknown *UnknownColorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "blurple", unknown.Name)
}

func TestResolve_TransparentRequiresAlphaContainer(t *testing.T) {
	_, err := Resolve(Transparent, container.MP4)

	var incompatible *IncompatibleFormatError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, container.MP4, incompatible.Format)

	in, err := Resolve(Transparent, container.MOV)
	require.NoError(t, err)
	assert.True(t, in.Transparent)
}

func TestInstruction_Hex(t *testing.T) {
	in, err := Resolve("FF8000", container.MP4)
	require.NoError(t, err)
	assert.Equal(t, "FF8000", in.Hex())
}
