package cue

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/normanking/mouthsync/internal/viseme"
)

// ParseBytes parses an in-memory copy of the engine's TSV output.
func ParseBytes(raw []byte, audioDuration float64) (*Timeline, error) {
	return Parse(bytes.NewReader(raw), audioDuration)
}

// Parse reads the lip-timing engine's TSV output: one record per line,
// "<start-seconds>\t<viseme-symbol>". The engine reports no total duration,
// so the caller injects the measured audio length.
func Parse(r io.Reader, audioDuration float64) (*Timeline, error) {
	var cues []Cue

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		fields := strings.Split(raw, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected %q, got %q", line, "<time>\\t<viseme>", raw)
		}

		start, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad start time %q: %w", line, fields[0], err)
		}
		if start < 0 {
			return nil, fmt.Errorf("line %d: negative start time %.3fs", line, start)
		}

		symbol := strings.TrimSpace(fields[1])
		shape, err := viseme.ParseShape(symbol)
		if err != nil {
			return nil, &UnknownVisemeError{Symbol: symbol, Line: line}
		}

		cues = append(cues, Cue{Start: start, Shape: shape})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lip-timing output: %w", err)
	}

	return New(cues, audioDuration)
}
