// Package cue turns the lip-timing engine's raw output into a validated
// timeline and expands that timeline into a gapless per-frame mouth-shape
// assignment.
package cue

import (
	"fmt"

	"github.com/normanking/mouthsync/internal/viseme"
)

// Cue marks the moment a mouth shape becomes active. A cue stays active
// until the next cue's start, or until the end of the audio for the last one.
type Cue struct {
	Start float64 // seconds from the beginning of the audio
	Shape viseme.Shape
}

// Timeline is an ordered, validated cue sequence covering [0, Duration).
// Build one with Parse or New; both enforce the ordering invariants.
type Timeline struct {
	cues     []Cue
	duration float64
}

// UnknownVisemeError reports a symbol the closed viseme set does not contain.
type UnknownVisemeError struct {
	Symbol string
	Line   int
}

func (e *UnknownVisemeError) Error() string {
	return fmt.Sprintf("line %d: unknown viseme symbol %q", e.Line, e.Symbol)
}

// OrderingError reports a cue whose start time moves backwards.
type OrderingError struct {
	Index int
	Prev  float64
	Time  float64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("cue %d: start time %.3fs is before previous cue at %.3fs", e.Index, e.Time, e.Prev)
}

// New builds a Timeline from already-parsed cues. The cue list must be in
// non-decreasing start order with non-negative times; violations are
// rejected, never silently reordered. A leading gap is closed by
// synthesizing a resting-mouth cue at zero.
func New(cues []Cue, duration float64) (*Timeline, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("audio duration must be positive, got %.3fs", duration)
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("no cues in lip-timing output")
	}

	prev := 0.0
	for i, c := range cues {
		if c.Start < 0 {
			return nil, fmt.Errorf("cue %d: negative start time %.3fs", i, c.Start)
		}
		if c.Start < prev {
			return nil, &OrderingError{Index: i, Prev: prev, Time: c.Start}
		}
		prev = c.Start
	}

	owned := make([]Cue, 0, len(cues)+1)
	if cues[0].Start > 0 {
		// Lip motion starts from a closed mouth, never from a gap.
		owned = append(owned, Cue{Start: 0, Shape: viseme.Rest})
	}
	owned = append(owned, cues...)

	return &Timeline{cues: owned, duration: duration}, nil
}

// Duration returns the audio length the timeline covers.
func (t *Timeline) Duration() float64 {
	return t.duration
}

// Cues returns a copy of the timeline's cue list, including any synthesized
// leading rest cue. Feeding it back through New reproduces an equivalent
// timeline.
func (t *Timeline) Cues() []Cue {
	out := make([]Cue, len(t.cues))
	copy(out, t.cues)
	return out
}
