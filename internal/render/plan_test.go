package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/mouthsync/internal/background"
	"github.com/normanking/mouthsync/internal/container"
	"github.com/normanking/mouthsync/internal/cue"
	"github.com/normanking/mouthsync/internal/viseme"
)

func testCatalog(t *testing.T) *viseme.Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, s := range viseme.Shapes {
		f, err := os.Create(filepath.Join(dir, s.AssetName()))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 48))))
		require.NoError(t, f.Close())
	}
	cat, err := viseme.LoadCatalog(dir, zerolog.Nop())
	require.NoError(t, err)
	return cat
}

func testFrames(t *testing.T, cues []cue.Cue, duration, rate float64) *cue.FrameAssignment {
	t.Helper()
	tl, err := cue.New(cues, duration)
	require.NoError(t, err)
	fa, err := tl.Frames(rate, cue.TrailingHold)
	require.NoError(t, err)
	return fa
}

func TestBuildPlan(t *testing.T) {
	cat := testCatalog(t)
	fa := testFrames(t, []cue.Cue{
		{Start: 0, Shape: viseme.ShapeX},
		{Start: 0.5, Shape: viseme.ShapeA},
	}, 1.0, 24)

	bg, err := background.Resolve("red", container.MP4)
	require.NoError(t, err)

	plan := BuildPlan(fa, cat, bg, "audio.wav", container.MP4)

	require.Equal(t, fa.Total(), plan.TotalFrames())
	assert.Equal(t, "audio.wav", plan.AudioPath)
	assert.Equal(t, container.MP4, plan.Format)
	assert.Equal(t, 24.0, plan.Rate)
	assert.Equal(t, 64, plan.Width)
	assert.Equal(t, 48, plan.Height)

	for i, ref := range plan.Frames {
		assert.Equal(t, i, ref.Index)
		assert.Equal(t, cat.ImageFor(fa.At(i)).Path, ref.Image.Path)
	}
}

func TestBuildPlan_PanicsOnNilInputs(t *testing.T) {
	cat := testCatalog(t)
	fa := testFrames(t, []cue.Cue{{Start: 0, Shape: viseme.ShapeX}}, 1.0, 24)

	assert.Panics(t, func() {
		BuildPlan(nil, cat, background.Instruction{}, "a.wav", container.MP4)
	})
	assert.Panics(t, func() {
		BuildPlan(fa, nil, background.Instruction{}, "a.wav", container.MP4)
	})
}

func TestPlan_RunsCollapseConsecutiveFrames(t *testing.T) {
	cat := testCatalog(t)
	fa := testFrames(t, []cue.Cue{
		{Start: 0, Shape: viseme.ShapeX},
		{Start: 0.5, Shape: viseme.ShapeA},
		{Start: 0.75, Shape: viseme.ShapeA}, // same image, same run
	}, 1.0, 24)

	plan := BuildPlan(fa, cat, background.Instruction{}, "audio.wav", container.MOV)
	runs := plan.Runs()

	require.Len(t, runs, 2)
	assert.Equal(t, cat.ImageFor(viseme.ShapeX).Path, runs[0].Image.Path)
	assert.Equal(t, 12, runs[0].Frames)
	assert.InDelta(t, 0.5, runs[0].Duration, 1e-9)
	assert.Equal(t, cat.ImageFor(viseme.ShapeA).Path, runs[1].Image.Path)
	assert.Equal(t, 12, runs[1].Frames)

	total := 0
	for _, r := range runs {
		total += r.Frames
	}
	assert.Equal(t, plan.TotalFrames(), total)
}
