// Package main is the entry point for the mouthsync CLI.
// mouthsync turns a voice recording and a set of mouth-shape images into a
// synchronized talking-mouth video, using whisper for transcription,
// rhubarb for lip timing, and ffmpeg for encoding.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/normanking/mouthsync/internal/audio"
	"github.com/normanking/mouthsync/internal/background"
	"github.com/normanking/mouthsync/internal/config"
	"github.com/normanking/mouthsync/internal/container"
	"github.com/normanking/mouthsync/internal/cue"
	"github.com/normanking/mouthsync/internal/encoder"
	"github.com/normanking/mouthsync/internal/lipsync"
	"github.com/normanking/mouthsync/internal/logging"
	"github.com/normanking/mouthsync/internal/pipeline"
	"github.com/normanking/mouthsync/internal/stt"
)

var (
	version = "0.1.0"

	flagAssets     string
	flagAudio      string
	flagTranscript string
	flagOutput     string
	flagFormat     string
	flagBackground string
	flagFPS        float64
	flagCloseMouth bool
	flagModel      string
	flagLanguage   string
	flagCPU        bool
	flagKeepTemp   bool
	flagVerbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mouthsync",
		Short: "Generate a lip-synced talking-mouth video from audio",
		Long: `mouthsync composes a frame-accurate talking-mouth video from a voice
recording and one mouth image per viseme (mouth_A.png .. mouth_H.png,
mouth_X.png).

When no transcript.txt sits next to the audio, whisper transcribes it
first. Rhubarb extracts the viseme timing, and ffmpeg renders the final
video: mp4 on a colored background, or mov with transparency.

Examples:
  mouthsync                            # mp4, white background
  mouthsync --background yellow        # mp4, yellow background
  mouthsync --background '#00FF00'     # mp4, hex background
  mouthsync --format mov               # mov with alpha preserved
  mouthsync --model small --cpu        # small whisper model on CPU

Colors: ` + strings.Join(background.Names(), ", "),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&flagAssets, "assets", "assets", "asset directory (mouth_images/, audio.wav, transcript.txt)")
	flags.StringVar(&flagAudio, "audio", "", "audio file (default <assets>/audio.wav)")
	flags.StringVar(&flagTranscript, "transcript", "", "transcript file (default <assets>/transcript.txt)")
	flags.StringVarP(&flagOutput, "output", "o", "", "output file (default lipsync.<format>)")
	flags.StringVar(&flagFormat, "format", "", "output format: mp4 or mov (default mp4)")
	flags.StringVar(&flagBackground, "background", "", "background color name or hex; ignored for mov (default white)")
	flags.Float64Var(&flagFPS, "fps", 0, "output frame rate (default 24)")
	flags.BoolVar(&flagCloseMouth, "close-mouth", false, "rest the mouth after the last cue instead of holding the last shape")
	flags.StringVar(&flagModel, "model", "", "whisper model: tiny, base, small, medium, large (default large)")
	flags.StringVar(&flagLanguage, "language", "", "transcription language code (default auto-detect)")
	flags.BoolVar(&flagCPU, "cpu", false, "force whisper onto the CPU")
	flags.BoolVar(&flagKeepTemp, "keep-tmp", false, "keep the intermediate concat script")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	cfg.ApplyDerived()

	logLevel := "info"
	if flagVerbose {
		logLevel = "debug"
	}
	logger, closer, err := logging.New(&logging.Config{Level: logLevel, Console: true})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	format, err := container.Parse(cfg.Video.Format)
	if err != nil {
		return err
	}

	// MOV keeps the mouth images' alpha channel; a color fill would defeat
	// the point, so transparency is implied.
	bgSpec := cfg.Video.Background
	if format.AlphaCapable() {
		bgSpec = background.Transparent
	}

	trailing := cue.TrailingHold
	if cfg.Video.CloseMouth {
		trailing = cue.TrailingClose
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(
		stt.NewWhisperCLI(&stt.WhisperConfig{
			BinaryPath: cfg.STT.Binary,
			ModelSize:  cfg.STT.ModelSize,
			Language:   cfg.STT.Language,
		}, logger),
		lipsync.NewRhubarb(&lipsync.RhubarbConfig{
			BinaryPath:     cfg.Timing.Binary,
			ExtendedShapes: cfg.Timing.ExtendedShapes,
		}, logger),
		audio.NewFFprobe(cfg.Encode.FFprobeBinary, logger),
		encoder.NewFFmpeg(&encoder.FFmpegConfig{
			BinaryPath: cfg.Encode.FFmpegBinary,
			KeepTemp:   cfg.Encode.KeepTemp,
		}, logger),
		logger,
	)

	result, err := p.Run(ctx, pipeline.Options{
		MouthDir:       cfg.Assets.MouthDir,
		AudioPath:      cfg.Assets.Audio,
		TranscriptPath: cfg.Assets.Transcript,
		OutputPath:     cfg.Video.Output,
		Format:         format,
		Background:     bgSpec,
		FrameRate:      cfg.Video.FrameRate,
		Trailing:       trailing,
		ModelSize:      cfg.STT.ModelSize,
		Language:       cfg.STT.Language,
		ForceCPU:       cfg.STT.ForceCPU,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d frames, %.2fs)\n", result.OutputPath, result.TotalFrames, result.Duration)
	return nil
}

// applyFlags overlays explicitly-set flags on the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("assets") {
		cfg.Assets.Dir = flagAssets
		// Derived paths follow the new directory unless set separately.
		cfg.Assets.MouthDir = ""
		cfg.Assets.Audio = ""
		cfg.Assets.Transcript = ""
	}
	if flags.Changed("audio") {
		cfg.Assets.Audio = flagAudio
	}
	if flags.Changed("transcript") {
		cfg.Assets.Transcript = flagTranscript
	}
	if flags.Changed("output") {
		cfg.Video.Output = flagOutput
	}
	if flags.Changed("format") {
		cfg.Video.Format = flagFormat
		if !flags.Changed("output") {
			cfg.Video.Output = ""
		}
	}
	if flags.Changed("background") {
		cfg.Video.Background = flagBackground
	}
	if flags.Changed("fps") {
		cfg.Video.FrameRate = flagFPS
	}
	if flags.Changed("close-mouth") {
		cfg.Video.CloseMouth = flagCloseMouth
	}
	if flags.Changed("model") {
		cfg.STT.ModelSize = flagModel
	}
	if flags.Changed("language") {
		cfg.STT.Language = flagLanguage
	}
	if flags.Changed("cpu") {
		cfg.STT.ForceCPU = flagCPU
	}
	if flags.Changed("keep-tmp") {
		cfg.Encode.KeepTemp = flagKeepTemp
	}
}
