// Package stt provides the speech-to-text boundary. The pipeline only calls
// it when no transcript file was supplied alongside the audio.
package stt

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrProviderUnavailable = errors.New("STT provider unavailable")
	ErrEmptyTranscript     = errors.New("transcription produced no text")
)

// Provider is the interface all STT providers must implement
type Provider interface {
	// Name returns the provider identifier (e.g., "whisper")
	Name() string

	// Transcribe converts an audio file to text
	Transcribe(ctx context.Context, req *TranscribeRequest) (*TranscribeResponse, error)

	// Health checks if the provider is available
	Health(ctx context.Context) error
}

// TranscribeRequest represents a transcription request
type TranscribeRequest struct {
	AudioPath string `json:"audio_path"`           // Path to the audio file
	ModelSize string `json:"model_size,omitempty"` // Model size (tiny, base, small, medium, large)
	Language  string `json:"language,omitempty"`   // Language code (e.g., "en"), empty = detect
	ForceCPU  bool   `json:"force_cpu,omitempty"`  // Skip GPU even when available
}

// TranscribeResponse represents a transcription result
type TranscribeResponse struct {
	Text           string        `json:"text"`            // Transcribed text
	ModelSize      string        `json:"model_size"`      // Model actually used
	Device         string        `json:"device"`          // cpu or cuda
	ProcessingTime time.Duration `json:"processing_time"` // How long transcription took
}

// ModelSizes lists the accepted whisper model selectors.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// ValidModelSize reports whether size names a known whisper model.
func ValidModelSize(size string) bool {
	for _, s := range ModelSizes {
		if s == size {
			return true
		}
	}
	return false
}
