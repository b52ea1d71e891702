// Package audio measures properties of the input audio asset via ffprobe.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Prober reports the playable length of an audio file. The compositor needs
// it to clip the last cue's interval and size the frame assignment.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFprobe measures duration by shelling out to ffprobe.
type FFprobe struct {
	binary string
	logger zerolog.Logger
}

// NewFFprobe creates a prober using the given binary, or "ffprobe" from
// PATH when empty.
func NewFFprobe(binary string, logger zerolog.Logger) *FFprobe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFprobe{
		binary: binary,
		logger: logger.With().Str("component", "ffprobe").Logger(),
	}
}

// Duration returns the audio length in seconds.
func (p *FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		p.logger.Error().Err(err).Str("stderr", stderr.String()).Msg("ffprobe failed")
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	raw := strings.TrimSpace(stdout.String())
	dur, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q: %w", path, raw, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("ffprobe %s: non-positive duration %.3fs", path, dur)
	}

	p.logger.Debug().Str("path", path).Float64("seconds", dur).Msg("Measured audio duration")
	return dur, nil
}
