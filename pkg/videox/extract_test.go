package videox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDurationOutput(t *testing.T) {
	d, ok := parseDurationOutput("6.399000\n")
	require.True(t, ok)
	require.Equal(t, time.Duration(6.399*float64(time.Second)), d)

	// ffprobe sometimes prints warnings before the value
	d, ok = parseDurationOutput("Warning: using insecure memory!\n2.500000\n")
	require.True(t, ok)
	require.Equal(t, 2500*time.Millisecond, d)

	_, ok = parseDurationOutput("N/A\n")
	require.False(t, ok)

	_, ok = parseDurationOutput("")
	require.False(t, ok)
}

func TestParseFrameCountOutput(t *testing.T) {
	n, ok := parseFrameCountOutput("150\n")
	require.True(t, ok)
	require.Equal(t, 150, n)

	_, ok = parseFrameCountOutput("nb_read_packets=\n")
	require.False(t, ok)
}
