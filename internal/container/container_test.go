package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "mp4", want: MP4},
		{in: "mov", want: MOV},
		{in: "MP4", want: MP4},
		{in: " mov ", want: MOV},
		{in: "avi", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCodecChoices(t *testing.T) {
	assert.False(t, MP4.AlphaCapable())
	assert.Equal(t, "libx264", MP4.VideoCodec())
	assert.Equal(t, "yuv420p", MP4.PixelFormat())

	assert.True(t, MOV.AlphaCapable())
	assert.Equal(t, "prores_ks", MOV.VideoCodec())
	assert.Equal(t, "yuva444p10le", MOV.PixelFormat())
}
