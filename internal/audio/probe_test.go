package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestFFprobe_Duration(t *testing.T) {
	p := NewFFprobe(writeStub(t, `printf '1.254000\n'`), zerolog.Nop())

	dur, err := p.Duration(context.Background(), "audio.wav")
	require.NoError(t, err)
	assert.InDelta(t, 1.254, dur, 1e-9)
}

func TestFFprobe_BadOutput(t *testing.T) {
	p := NewFFprobe(writeStub(t, `printf 'N/A\n'`), zerolog.Nop())

	_, err := p.Duration(context.Background(), "audio.wav")
	assert.ErrorContains(t, err, "bad duration")
}

func TestFFprobe_NonPositiveDuration(t *testing.T) {
	p := NewFFprobe(writeStub(t, `printf '0.0\n'`), zerolog.Nop())

	_, err := p.Duration(context.Background(), "audio.wav")
	assert.ErrorContains(t, err, "non-positive duration")
}

func TestFFprobe_CommandFailure(t *testing.T) {
	p := NewFFprobe(writeStub(t, `echo "no such file" >&2; exit 1`), zerolog.Nop())

	_, err := p.Duration(context.Background(), "missing.wav")
	assert.Error(t, err)
}
