package cue

import (
	"fmt"
	"math"

	"github.com/normanking/mouthsync/internal/viseme"
)

// TrailingMode decides what the mouth does in the stretch between the last
// cue's start and the end of the audio when the engine did not close it.
type TrailingMode int

const (
	// TrailingHold keeps the last cue's shape until the audio ends.
	TrailingHold TrailingMode = iota
	// TrailingClose shows the last shape for a single frame, then rests.
	TrailingClose
)

// FrameAssignment maps every frame index of the output video to exactly one
// mouth shape.
type FrameAssignment struct {
	Rate   float64
	Shapes []viseme.Shape
}

// Total returns the frame count, ceil(duration * rate).
func (fa *FrameAssignment) Total() int {
	return len(fa.Shapes)
}

// At returns the shape assigned to frame i.
func (fa *FrameAssignment) At(i int) viseme.Shape {
	return fa.Shapes[i]
}

// Frames expands the timeline into a frame assignment at the given rate.
//
// Each cue's interval [start_i, start_i+1) quantizes to the frame range
// [floor(start_i*rate), floor(start_i+1*rate)), assigned in cue order so a
// later cue landing on the same frame wins. A cue shorter than one frame
// period therefore contributes no frames at all; that lossy rounding is
// accepted. Floor keeps quantization audio-safe: visual lag over visual
// lead. The last interval clips to the audio duration, and the final
// partial frame inherits its predecessor so no frame is left unassigned.
// Single linear merge, O(frames + cues).
func (t *Timeline) Frames(rate float64, trailing TrailingMode) (*FrameAssignment, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %g", rate)
	}

	total := int(math.Ceil(t.duration * rate))
	shapes := make([]viseme.Shape, total)

	for i, c := range t.cues {
		startF := int(math.Floor(c.Start * rate))
		var endF int
		if i+1 < len(t.cues) {
			endF = int(math.Floor(t.cues[i+1].Start * rate))
		} else {
			endF = int(math.Floor(t.duration * rate))
		}
		if endF > total {
			endF = total
		}
		for f := startF; f < endF; f++ {
			shapes[f] = c.Shape
		}
	}

	// ceil(duration*rate) can exceed the last interval's floor by one
	// frame; that tail frame keeps the shape already on screen. Frame 0 can
	// only be unassigned when the whole timeline is shorter than one frame
	// period; it then samples the timeline at t=0, the first cue's shape.
	for f := 0; f < total; f++ {
		if shapes[f] != "" {
			continue
		}
		if f == 0 {
			if len(t.cues) > 0 {
				shapes[f] = t.cues[0].Shape
			} else {
				shapes[f] = viseme.Rest
			}
			continue
		}
		shapes[f] = shapes[f-1]
	}

	if trailing == TrailingClose {
		closeTrailing(shapes, rate, t.cues)
	}

	return &FrameAssignment{Rate: rate, Shapes: shapes}, nil
}

// closeTrailing rests the mouth after the last cue: the final shape holds
// for one frame, every frame after it becomes X. A last cue that is already
// X is left alone.
func closeTrailing(shapes []viseme.Shape, rate float64, cues []Cue) {
	last := cues[len(cues)-1]
	if last.Shape == viseme.Rest {
		return
	}
	first := int(math.Floor(last.Start * rate))
	for f := first + 1; f < len(shapes); f++ {
		shapes[f] = viseme.Rest
	}
}
