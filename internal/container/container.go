// Package container describes the supported output video containers and the
// codec choices the encoder makes for each.
package container

import (
	"fmt"
	"strings"
)

// Format selects the output container. MP4 composites onto an opaque
// background; MOV preserves the mouth images' alpha channel.
type Format string

const (
	MP4 Format = "mp4"
	MOV Format = "mov"
)

// Parse validates a user-supplied format selector.
func Parse(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case MP4:
		return MP4, nil
	case MOV:
		return MOV, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want mp4 or mov)", s)
}

// AlphaCapable reports whether the container can carry per-pixel transparency.
func (f Format) AlphaCapable() bool {
	return f == MOV
}

// VideoCodec returns the encoder's video codec for this container.
func (f Format) VideoCodec() string {
	if f == MOV {
		return "prores_ks"
	}
	return "libx264"
}

// PixelFormat returns the pixel format handed to the encoder. The MOV
// variant keeps the alpha plane.
func (f Format) PixelFormat() string {
	if f == MOV {
		return "yuva444p10le"
	}
	return "yuv420p"
}

func (f Format) String() string {
	return string(f)
}
