// Package stt provides a Whisper provider that shells out to the local
// openai-whisper command line tool.
package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// WhisperCLI implements Provider using the whisper binary.
type WhisperCLI struct {
	logger zerolog.Logger
	config *WhisperConfig
}

// WhisperConfig holds whisper CLI configuration
type WhisperConfig struct {
	BinaryPath string `json:"binary_path"` // Path to the whisper binary
	ModelSize  string `json:"model_size"`  // Default model when the request names none
	Language   string `json:"language"`    // Default language, empty = auto-detect
}

// DefaultWhisperConfig returns sensible defaults
func DefaultWhisperConfig() *WhisperConfig {
	return &WhisperConfig{
		BinaryPath: "whisper",
		ModelSize:  "large",
	}
}

// NewWhisperCLI creates a new whisper CLI provider
func NewWhisperCLI(config *WhisperConfig, logger zerolog.Logger) *WhisperCLI {
	if config == nil {
		config = DefaultWhisperConfig()
	}
	if config.BinaryPath == "" {
		config.BinaryPath = "whisper"
	}
	return &WhisperCLI{
		logger: logger.With().Str("component", "whisper").Logger(),
		config: config,
	}
}

// Name returns the provider identifier
func (w *WhisperCLI) Name() string {
	return "whisper"
}

// Health checks that the whisper binary is on PATH.
func (w *WhisperCLI) Health(ctx context.Context) error {
	if _, err := exec.LookPath(w.config.BinaryPath); err != nil {
		return fmt.Errorf("%w: %s not found", ErrProviderUnavailable, w.config.BinaryPath)
	}
	return nil
}

// Transcribe runs whisper on the audio file and returns the plain text
// result. Whisper writes <audio-basename>.txt into the output directory.
func (w *WhisperCLI) Transcribe(ctx context.Context, req *TranscribeRequest) (*TranscribeResponse, error) {
	if err := w.Health(ctx); err != nil {
		return nil, err
	}

	model := req.ModelSize
	if model == "" {
		model = w.config.ModelSize
	}
	if !ValidModelSize(model) {
		return nil, fmt.Errorf("unknown whisper model size %q", model)
	}

	outDir, err := os.MkdirTemp("", "mouthsync-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	device := "cuda"
	if req.ForceCPU {
		device = "cpu"
	}

	args := []string{
		req.AudioPath,
		"--model", model,
		"--device", device,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	lang := req.Language
	if lang == "" {
		lang = w.config.Language
	}
	if lang != "" {
		args = append(args, "--language", lang)
	}

	w.logger.Info().
		Str("model", model).
		Str("device", device).
		Str("audio", req.AudioPath).
		Msg("Transcribing with whisper")

	start := time.Now()

	cmd := exec.CommandContext(ctx, w.config.BinaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if req.ForceCPU || !looksLikeCUDAFailure(stderr.String()) {
			w.logger.Error().Err(err).Str("stderr", stderr.String()).Msg("whisper failed")
			return nil, fmt.Errorf("whisper command failed: %w", err)
		}
		// No usable GPU on this machine. Retry once on the CPU.
		w.logger.Warn().Msg("CUDA unavailable, retrying whisper on CPU")
		retry := *req
		retry.ForceCPU = true
		return w.Transcribe(ctx, &retry)
	}

	base := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	txtPath := filepath.Join(outDir, base+".txt")
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyTranscript
	}

	elapsed := time.Since(start)
	w.logger.Info().
		Int("chars", len(text)).
		Dur("processingTime", elapsed).
		Msg("Transcription complete")

	return &TranscribeResponse{
		Text:           text,
		ModelSize:      model,
		Device:         device,
		ProcessingTime: elapsed,
	}, nil
}

// looksLikeCUDAFailure sniffs whisper's stderr for GPU initialization
// errors, which show up when --device cuda is requested on a CPU-only box.
func looksLikeCUDAFailure(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "cuda") || strings.Contains(s, "torch not compiled")
}
