// Package lipsync provides the lip-timing engine boundary: it turns an
// audio file (plus optional dialog text) into raw timed viseme records for
// the cue parser.
package lipsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrEngineUnavailable means the rhubarb binary could not be found.
var ErrEngineUnavailable = errors.New("lip-timing engine unavailable")

// Timer is the lip-timing engine contract. Implementations return the
// engine's native TSV output; parsing and validation belong to the cue
// package.
type Timer interface {
	// Name returns the engine identifier (e.g., "rhubarb")
	Name() string

	// Time analyzes the audio and returns raw cue records
	Time(ctx context.Context, req *TimingRequest) ([]byte, error)

	// Health checks if the engine is available
	Health(ctx context.Context) error
}

// TimingRequest names the audio to analyze and an optional dialog file that
// guides the engine's recognition.
type TimingRequest struct {
	AudioPath  string `json:"audio_path"`
	DialogPath string `json:"dialog_path,omitempty"`
}

// Rhubarb implements Timer using the rhubarb-lip-sync binary.
// https://github.com/DanielSWolf/rhubarb-lip-sync
type Rhubarb struct {
	logger zerolog.Logger
	config *RhubarbConfig
}

// RhubarbConfig holds rhubarb configuration
type RhubarbConfig struct {
	BinaryPath     string `json:"binary_path"`     // Path to the rhubarb binary
	ExtendedShapes string `json:"extended_shapes"` // Extra shapes to emit beyond A-F (default GHX)
}

// DefaultRhubarbConfig returns sensible defaults
func DefaultRhubarbConfig() *RhubarbConfig {
	return &RhubarbConfig{
		BinaryPath:     "rhubarb",
		ExtendedShapes: "GHX",
	}
}

// NewRhubarb creates a new rhubarb timer
func NewRhubarb(config *RhubarbConfig, logger zerolog.Logger) *Rhubarb {
	if config == nil {
		config = DefaultRhubarbConfig()
	}
	if config.BinaryPath == "" {
		config.BinaryPath = "rhubarb"
	}
	return &Rhubarb{
		logger: logger.With().Str("component", "rhubarb").Logger(),
		config: config,
	}
}

// Name returns the engine identifier
func (r *Rhubarb) Name() string {
	return "rhubarb"
}

// Health checks that the rhubarb binary can be resolved.
func (r *Rhubarb) Health(ctx context.Context) error {
	path := r.config.BinaryPath
	if filepath.IsAbs(path) || filepath.Dir(path) != "." {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrEngineUnavailable, path)
		}
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("%w: %s not found", ErrEngineUnavailable, path)
	}
	return nil
}

// Time runs rhubarb with TSV output and returns the raw record bytes.
func (r *Rhubarb) Time(ctx context.Context, req *TimingRequest) ([]byte, error) {
	if err := r.Health(ctx); err != nil {
		return nil, err
	}

	out, err := os.CreateTemp("", "mouthsync-cues-*.tsv")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args := []string{"-f", "tsv", "-o", outPath}
	if r.config.ExtendedShapes != "" {
		args = append(args, "--extendedShapes", r.config.ExtendedShapes)
	}
	if req.DialogPath != "" {
		args = append(args, "-d", req.DialogPath)
	}
	args = append(args, req.AudioPath)

	r.logger.Info().Str("audio", req.AudioPath).Str("dialog", req.DialogPath).Msg("Running rhubarb")

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Error().Err(err).Str("stderr", stderr.String()).Msg("rhubarb failed")
		return nil, fmt.Errorf("rhubarb command failed: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read rhubarb output: %w", err)
	}

	r.logger.Debug().Int("bytes", len(data)).Msg("Lip timing complete")
	return data, nil
}
