// Package pipeline runs the full audio-to-video sequence: transcription
// when needed, lip timing, cue parsing, frame composition, and encoding.
// All three external engines are injected, so the control flow tests
// without real binaries.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/normanking/mouthsync/internal/audio"
	"github.com/normanking/mouthsync/internal/background"
	"github.com/normanking/mouthsync/internal/container"
	"github.com/normanking/mouthsync/internal/cue"
	"github.com/normanking/mouthsync/internal/encoder"
	"github.com/normanking/mouthsync/internal/lipsync"
	"github.com/normanking/mouthsync/internal/render"
	"github.com/normanking/mouthsync/internal/stt"
	"github.com/normanking/mouthsync/internal/viseme"
)

// Stage names the pipeline step a failure came from.
type Stage string

const (
	StageCatalog    Stage = "catalog"
	StageBackground Stage = "background"
	StageTranscribe Stage = "transcribe"
	StageProbe      Stage = "probe"
	StageTiming     Stage = "lip-timing"
	StageParse      Stage = "parse"
	StageComposite  Stage = "composite"
	StageEncode     Stage = "encode"
)

// StageError wraps a failure with the stage it happened in. The pipeline
// aborts at the first failing stage; nothing is retried here.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options carries the pre-parsed, validated knobs for one invocation. The
// pipeline never parses command-line text itself.
type Options struct {
	MouthDir       string
	AudioPath      string
	TranscriptPath string // used when it exists; otherwise STT runs
	OutputPath     string

	Format     container.Format
	Background string // color name, hex, or "transparent"
	FrameRate  float64
	Trailing   cue.TrailingMode

	ModelSize string
	Language  string
	ForceCPU  bool
}

// Result summarizes a completed run.
type Result struct {
	OutputPath  string
	Duration    float64
	TotalFrames int
	CueCount    int
	Transcribed bool // true when STT generated the transcript
}

// Pipeline wires the compositor core to the three external engines.
type Pipeline struct {
	stt     stt.Provider
	timer   lipsync.Timer
	prober  audio.Prober
	encoder encoder.Encoder
	logger  zerolog.Logger
}

// New creates a pipeline with the given collaborators.
func New(sttProvider stt.Provider, timer lipsync.Timer, prober audio.Prober, enc encoder.Encoder, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		stt:     sttProvider,
		timer:   timer,
		prober:  prober,
		encoder: enc,
		logger:  logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes the stages strictly in sequence and stops at the first
// failure, naming the stage in the returned error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	// Configuration errors surface before any engine is invoked.
	catalog, err := viseme.LoadCatalog(opts.MouthDir, p.logger)
	if err != nil {
		return nil, &StageError{Stage: StageCatalog, Err: err}
	}

	bg, err := background.Resolve(opts.Background, opts.Format)
	if err != nil {
		return nil, &StageError{Stage: StageBackground, Err: err}
	}

	dialogPath, transcribed, cleanup, err := p.resolveTranscript(ctx, opts)
	if err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}
	defer cleanup()

	duration, err := p.prober.Duration(ctx, opts.AudioPath)
	if err != nil {
		return nil, &StageError{Stage: StageProbe, Err: err}
	}

	raw, err := p.timer.Time(ctx, &lipsync.TimingRequest{
		AudioPath:  opts.AudioPath,
		DialogPath: dialogPath,
	})
	if err != nil {
		return nil, &StageError{Stage: StageTiming, Err: err}
	}

	timeline, err := cue.ParseBytes(raw, duration)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}

	frames, err := timeline.Frames(opts.FrameRate, opts.Trailing)
	if err != nil {
		return nil, &StageError{Stage: StageComposite, Err: err}
	}

	plan := render.BuildPlan(frames, catalog, bg, opts.AudioPath, opts.Format)

	if err := p.encoder.Encode(ctx, plan, opts.OutputPath); err != nil {
		return nil, &StageError{Stage: StageEncode, Err: err}
	}

	p.logger.Info().
		Str("output", opts.OutputPath).
		Float64("seconds", duration).
		Int("frames", frames.Total()).
		Msg("Pipeline complete")

	return &Result{
		OutputPath:  opts.OutputPath,
		Duration:    duration,
		TotalFrames: frames.Total(),
		CueCount:    len(timeline.Cues()),
		Transcribed: transcribed,
	}, nil
}

// resolveTranscript returns the dialog file for the lip-timing engine: the
// supplied transcript when it exists, otherwise a temp file holding the
// STT result. The cleanup func removes only what this call created.
func (p *Pipeline) resolveTranscript(ctx context.Context, opts Options) (string, bool, func(), error) {
	noop := func() {}

	if opts.TranscriptPath != "" {
		_, err := os.Stat(opts.TranscriptPath)
		switch {
		case err == nil:
			p.logger.Info().Str("path", opts.TranscriptPath).Msg("Using supplied transcript")
			return opts.TranscriptPath, false, noop, nil
		case !os.IsNotExist(err):
			// A transcript that exists but cannot be read is an error, not
			// a reason to transcribe over it.
			return "", false, noop, fmt.Errorf("stat transcript: %w", err)
		}
	}

	p.logger.Info().Str("model", opts.ModelSize).Msg("No transcript found, transcribing")

	resp, err := p.stt.Transcribe(ctx, &stt.TranscribeRequest{
		AudioPath: opts.AudioPath,
		ModelSize: opts.ModelSize,
		Language:  opts.Language,
		ForceCPU:  opts.ForceCPU,
	})
	if err != nil {
		return "", false, noop, err
	}

	tmp, err := os.CreateTemp("", "mouthsync-transcript-*.txt")
	if err != nil {
		return "", false, noop, fmt.Errorf("create transcript file: %w", err)
	}
	if _, err := tmp.WriteString(resp.Text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", false, noop, fmt.Errorf("write transcript file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", false, noop, fmt.Errorf("close transcript file: %w", err)
	}

	path := tmp.Name()
	return path, true, func() { os.Remove(path) }, nil
}
