// Package render assembles the instruction set handed to the external video
// encoder: which image shows on which frame, what sits behind it, and which
// container carries the result. No pixel work happens here.
package render

import (
	"github.com/normanking/mouthsync/internal/background"
	"github.com/normanking/mouthsync/internal/container"
	"github.com/normanking/mouthsync/internal/cue"
	"github.com/normanking/mouthsync/internal/viseme"
)

// FrameRef binds one output frame to one mouth image.
type FrameRef struct {
	Index int
	Image viseme.Image
}

// Run is a stretch of consecutive frames showing the same image. The
// encoder's concat input wants durations, not per-frame entries.
type Run struct {
	Image    viseme.Image
	Frames   int
	Duration float64 // seconds, Frames / plan rate
}

// Plan is the complete, ordered encoder instruction set. Built once per
// invocation, consumed once, never mutated afterwards.
type Plan struct {
	Frames     []FrameRef
	Rate       float64
	AudioPath  string
	Format     container.Format
	Background background.Instruction
	Width      int
	Height     int
}

// BuildPlan pairs every frame's mouth shape with its catalog image. Inputs
// arrive pre-validated; a bad input here is a programming error, so the
// nil checks panic rather than return.
func BuildPlan(frames *cue.FrameAssignment, cat *viseme.Catalog, bg background.Instruction, audioPath string, format container.Format) *Plan {
	if frames == nil || cat == nil {
		panic("render: BuildPlan called before validation")
	}

	refs := make([]FrameRef, frames.Total())
	for i := range refs {
		refs[i] = FrameRef{Index: i, Image: cat.ImageFor(frames.At(i))}
	}

	w, h := cat.Resolution()
	return &Plan{
		Frames:     refs,
		Rate:       frames.Rate,
		AudioPath:  audioPath,
		Format:     format,
		Background: bg,
		Width:      w,
		Height:     h,
	}
}

// Runs collapses consecutive frames with the same image into timed runs.
func (p *Plan) Runs() []Run {
	if len(p.Frames) == 0 {
		return nil
	}

	var runs []Run
	cur := Run{Image: p.Frames[0].Image, Frames: 1}
	for _, ref := range p.Frames[1:] {
		if ref.Image.Path == cur.Image.Path {
			cur.Frames++
			continue
		}
		cur.Duration = float64(cur.Frames) / p.Rate
		runs = append(runs, cur)
		cur = Run{Image: ref.Image, Frames: 1}
	}
	cur.Duration = float64(cur.Frames) / p.Rate
	return append(runs, cur)
}

// TotalFrames returns the number of frames the encoder must emit.
func (p *Plan) TotalFrames() int {
	return len(p.Frames)
}
