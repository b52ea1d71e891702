// Package encoder provides the video encoder boundary. The ffmpeg driver
// turns a render plan into the final muxed video file; it owns all pixel
// work, including compositing the mouth images onto the background fill.
package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/normanking/mouthsync/internal/container"
	"github.com/normanking/mouthsync/internal/render"
)

// ErrEncoderUnavailable means the ffmpeg binary could not be found.
var ErrEncoderUnavailable = errors.New("video encoder unavailable")

// Encoder consumes a render plan and produces a video file on disk.
// All-or-nothing: on failure no renderable partial output is left behind.
type Encoder interface {
	// Name returns the encoder identifier (e.g., "ffmpeg")
	Name() string

	// Encode renders the plan to outputPath
	Encode(ctx context.Context, plan *render.Plan, outputPath string) error

	// Health checks if the encoder is available
	Health(ctx context.Context) error
}

// FFmpeg implements Encoder by shelling out to ffmpeg with a concat
// demuxer script built from the plan's image runs.
type FFmpeg struct {
	logger zerolog.Logger
	config *FFmpegConfig
}

// FFmpegConfig holds ffmpeg configuration
type FFmpegConfig struct {
	BinaryPath string `json:"binary_path"` // Path to the ffmpeg binary
	KeepTemp   bool   `json:"keep_temp"`   // Keep the generated concat script
}

// DefaultFFmpegConfig returns sensible defaults
func DefaultFFmpegConfig() *FFmpegConfig {
	return &FFmpegConfig{BinaryPath: "ffmpeg"}
}

// NewFFmpeg creates a new ffmpeg encoder
func NewFFmpeg(config *FFmpegConfig, logger zerolog.Logger) *FFmpeg {
	if config == nil {
		config = DefaultFFmpegConfig()
	}
	if config.BinaryPath == "" {
		config.BinaryPath = "ffmpeg"
	}
	return &FFmpeg{
		logger: logger.With().Str("component", "ffmpeg").Logger(),
		config: config,
	}
}

// Name returns the encoder identifier
func (f *FFmpeg) Name() string {
	return "ffmpeg"
}

// Health checks that the ffmpeg binary is on PATH.
func (f *FFmpeg) Health(ctx context.Context) error {
	if _, err := exec.LookPath(f.config.BinaryPath); err != nil {
		return fmt.Errorf("%w: %s not found", ErrEncoderUnavailable, f.config.BinaryPath)
	}
	return nil
}

// Encode writes the concat script, assembles the ffmpeg invocation for the
// plan's container, and runs it. Output lands at outputPath only when
// ffmpeg exits cleanly.
func (f *FFmpeg) Encode(ctx context.Context, plan *render.Plan, outputPath string) error {
	if err := f.Health(ctx); err != nil {
		return err
	}

	concatPath, err := f.writeConcatScript(plan)
	if err != nil {
		return err
	}
	if !f.config.KeepTemp {
		defer os.Remove(concatPath)
	}

	args := f.buildArgs(ctx, plan, concatPath, outputPath)

	f.logger.Info().
		Str("format", plan.Format.String()).
		Str("output", outputPath).
		Int("frames", plan.TotalFrames()).
		Msg("Encoding video")

	cmd := exec.CommandContext(ctx, f.config.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		f.logger.Error().Err(err).Str("stderr", tail(stderr.String(), 2000)).Msg("ffmpeg failed")
		// Do not leave a half-written file behind.
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg command failed: %w", err)
	}

	f.logger.Info().Str("output", outputPath).Msg("Video encoded")
	return nil
}

// writeConcatScript emits the concat demuxer input: one file/duration pair
// per image run, with the final image repeated so the demuxer honors the
// last duration.
func (f *FFmpeg) writeConcatScript(plan *render.Plan) (string, error) {
	tmp, err := os.CreateTemp("", "mouthsync-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat script: %w", err)
	}

	var b strings.Builder
	runs := plan.Runs()
	for _, run := range runs {
		fmt.Fprintf(&b, "file '%s'\n", run.Image.Path)
		fmt.Fprintf(&b, "duration %.6f\n", run.Duration)
	}
	if len(runs) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", runs[len(runs)-1].Image.Path)
	}

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write concat script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close concat script: %w", err)
	}
	return tmp.Name(), nil
}

// buildArgs assembles the full ffmpeg argument list for the plan.
func (f *FFmpeg) buildArgs(ctx context.Context, plan *render.Plan, concatPath, outputPath string) []string {
	var args []string
	if f.cudaAvailable(ctx) {
		args = append(args, "-hwaccel", "cuda")
	}
	args = append(args,
		"-y",
		"-f", "concat", "-safe", "0", "-i", concatPath,
	)

	overlay := !plan.Background.Transparent && plan.Format == container.MP4
	if overlay {
		color := fmt.Sprintf("color=c=0x%s:s=%dx%d:r=%g",
			plan.Background.Hex(), plan.Width, plan.Height, plan.Rate)
		args = append(args, "-f", "lavfi", "-i", color)
	}

	args = append(args, "-i", plan.AudioPath)

	if overlay {
		// Mouth PNGs carry alpha; the color source sits behind them.
		args = append(args,
			"-filter_complex", "[1:v][0:v]overlay=shortest=1,format="+plan.Format.PixelFormat(),
		)
	} else {
		args = append(args, "-pix_fmt", plan.Format.PixelFormat())
	}

	args = append(args,
		"-fps_mode", "vfr",
		"-c:v", plan.Format.VideoCodec(),
	)
	if plan.Format == container.MOV {
		args = append(args, "-profile:v", "4444")
	}
	args = append(args,
		"-c:a", "aac",
		"-shortest",
		outputPath,
	)
	return args
}

// cudaAvailable probes ffmpeg's hardware accelerators for cuda.
func (f *FFmpeg) cudaAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, f.config.BinaryPath, "-hwaccels")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), "cuda")
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
