package cue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/mouthsync/internal/viseme"
)

func TestParse_RhubarbTSV(t *testing.T) {
	raw := "0.00\tX\n0.27\tB\n0.45\tE\n1.12\tX\n"

	tl, err := Parse(strings.NewReader(raw), 1.5)
	require.NoError(t, err)

	cues := tl.Cues()
	require.Len(t, cues, 4)
	assert.Equal(t, Cue{Start: 0, Shape: viseme.ShapeX}, cues[0])
	assert.Equal(t, Cue{Start: 0.27, Shape: viseme.ShapeB}, cues[1])
	assert.Equal(t, 1.5, tl.Duration())
}

func TestParse_SynthesizesLeadingRestCue(t *testing.T) {
	tl, err := Parse(strings.NewReader("0.30\tA\n"), 1.0)
	require.NoError(t, err)

	cues := tl.Cues()
	require.Len(t, cues, 2)
	assert.Equal(t, Cue{Start: 0, Shape: viseme.Rest}, cues[0])
	assert.Equal(t, Cue{Start: 0.30, Shape: viseme.ShapeA}, cues[1])
}

func TestParse_UnknownViseme(t *testing.T) {
	_, err := Parse(strings.NewReader("0.00\tX\n0.30\tQ\n"), 1.0)
	require.Error(t, err)

	var unknown *UnknownVisemeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Q", unknown.Symbol)
	assert.Equal(t, 2, unknown.Line)
}

func TestParse_OutOfOrderCues(t *testing.T) {
	// Start times 0, 0.3, 0.1: the third cue moves backwards.
	_, err := Parse(strings.NewReader("0.0\tX\n0.3\tA\n0.1\tB\n"), 1.0)
	require.Error(t, err)

	var ordering *OrderingError
	require.ErrorAs(t, err, &ordering)
	assert.Equal(t, 2, ordering.Index)
	assert.Equal(t, 0.3, ordering.Prev)
	assert.Equal(t, 0.1, ordering.Time)
}

func TestParse_NegativeStartTime(t *testing.T) {
	_, err := Parse(strings.NewReader("-0.5\tX\n"), 1.0)
	assert.ErrorContains(t, err, "negative start time")
}

func TestParse_MalformedLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing column", raw: "0.00\n"},
		{name: "extra column", raw: "0.00\tX\tY\n"},
		{name: "non-numeric time", raw: "abc\tX\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.raw), 1.0)
			assert.Error(t, err)
		})
	}
}

func TestParse_SkipsBlankLinesAndCR(t *testing.T) {
	tl, err := Parse(strings.NewReader("0.00\tX\r\n\n0.50\tA\r\n"), 1.0)
	require.NoError(t, err)
	assert.Len(t, tl.Cues(), 2)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), 1.0)
	assert.ErrorContains(t, err, "no cues")
}

func TestNew_RejectsNonPositiveDuration(t *testing.T) {
	_, err := New([]Cue{{Start: 0, Shape: viseme.ShapeX}}, 0)
	assert.Error(t, err)
}

func TestNew_EqualStartTimesAllowed(t *testing.T) {
	tl, err := New([]Cue{
		{Start: 0, Shape: viseme.ShapeX},
		{Start: 0.5, Shape: viseme.ShapeA},
		{Start: 0.5, Shape: viseme.ShapeB},
	}, 1.0)
	require.NoError(t, err)
	assert.Len(t, tl.Cues(), 3)
}
