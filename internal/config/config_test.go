package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "mp4", cfg.Video.Format)
	assert.Equal(t, "white", cfg.Video.Background)
	assert.Equal(t, 24.0, cfg.Video.FrameRate)
	assert.False(t, cfg.Video.CloseMouth)
	assert.Equal(t, "large", cfg.STT.ModelSize)
	assert.Equal(t, "rhubarb", cfg.Timing.Binary)
}

func TestApplyDerived(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assets.Dir = "media"
	cfg.ApplyDerived()

	assert.Equal(t, filepath.Join("media", "mouth_images"), cfg.Assets.MouthDir)
	assert.Equal(t, filepath.Join("media", "audio.wav"), cfg.Assets.Audio)
	assert.Equal(t, filepath.Join("media", "transcript.txt"), cfg.Assets.Transcript)
	assert.Equal(t, "lipsync.mp4", cfg.Video.Output)
}

func TestApplyDerived_KeepsExplicitValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assets.Audio = "voice.wav"
	cfg.Video.Format = "mov"
	cfg.ApplyDerived()

	assert.Equal(t, "voice.wav", cfg.Assets.Audio)
	assert.Equal(t, "lipsync.mov", cfg.Video.Output)
}
