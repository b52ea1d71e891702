// Package config provides configuration management for mouthsync
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Assets Assets  `mapstructure:"assets"`
	Video  Video   `mapstructure:"video"`
	STT    STT     `mapstructure:"stt"`
	Timing Timing  `mapstructure:"timing"`
	Encode Encode  `mapstructure:"encode"`
}

// Assets locates the input files
type Assets struct {
	Dir        string `mapstructure:"dir"`        // Asset directory (mouth images, audio, transcript)
	MouthDir   string `mapstructure:"mouth_dir"`  // Mouth image directory, default <dir>/mouth_images
	Audio      string `mapstructure:"audio"`      // Audio file, default <dir>/audio.wav
	Transcript string `mapstructure:"transcript"` // Transcript file, default <dir>/transcript.txt
}

// Video configures the composited output
type Video struct {
	Format     string  `mapstructure:"format"`      // mp4 or mov
	Background string  `mapstructure:"background"`  // color name, hex, or "transparent"
	FrameRate  float64 `mapstructure:"frame_rate"`  // output frames per second
	CloseMouth bool    `mapstructure:"close_mouth"` // rest the mouth after the last cue
	Output     string  `mapstructure:"output"`      // output path, default lipsync.<format>
}

// STT configures the transcription engine
type STT struct {
	Binary    string `mapstructure:"binary"`     // whisper binary path
	ModelSize string `mapstructure:"model_size"` // tiny, base, small, medium, large
	Language  string `mapstructure:"language"`   // language code, empty = detect
	ForceCPU  bool   `mapstructure:"force_cpu"`  // skip GPU even when available
}

// Timing configures the lip-timing engine
type Timing struct {
	Binary         string `mapstructure:"binary"`          // rhubarb binary path
	ExtendedShapes string `mapstructure:"extended_shapes"` // shapes beyond A-F rhubarb may emit
}

// Encode configures the video encoder
type Encode struct {
	FFmpegBinary  string `mapstructure:"ffmpeg_binary"`
	FFprobeBinary string `mapstructure:"ffprobe_binary"`
	KeepTemp      bool   `mapstructure:"keep_temp"` // keep intermediate concat script
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Assets: Assets{
			Dir: "assets",
		},
		Video: Video{
			Format:     "mp4",
			Background: "white",
			FrameRate:  24,
		},
		STT: STT{
			Binary:    "whisper",
			ModelSize: "large",
		},
		Timing: Timing{
			Binary:         "rhubarb",
			ExtendedShapes: "GHX",
		},
		Encode: Encode{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("mouthsync")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "mouthsync"))
	}

	// Environment variable overrides
	viper.SetEnvPrefix("MOUTHSYNC")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	cfg.ApplyDerived()
	return cfg, nil
}

// ApplyDerived fills paths that default relative to the asset directory.
func (c *Config) ApplyDerived() {
	if c.Assets.MouthDir == "" {
		c.Assets.MouthDir = filepath.Join(c.Assets.Dir, "mouth_images")
	}
	if c.Assets.Audio == "" {
		c.Assets.Audio = filepath.Join(c.Assets.Dir, "audio.wav")
	}
	if c.Assets.Transcript == "" {
		c.Assets.Transcript = filepath.Join(c.Assets.Dir, "transcript.txt")
	}
	if c.Video.Output == "" {
		c.Video.Output = "lipsync." + c.Video.Format
	}
}
