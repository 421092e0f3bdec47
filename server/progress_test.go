package server

import (
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func TestProgressHub(t *testing.T) {
	hub := NewProgressHub(logs.NewTestingLog(t))
	ch := hub.AddWatcher("job-1")
	other := hub.AddWatcher("job-2")

	hub.Publish(&ProgressEvent{JobID: "job-1", FramesScanned: 50, PosesFound: 48})
	hub.Publish(&ProgressEvent{JobID: "job-1", FramesScanned: 100, PosesFound: 97, Done: true})

	ev := <-ch
	require.Equal(t, 50, ev.FramesScanned)
	ev = <-ch
	require.True(t, ev.Done)

	// Watchers only see their own job
	require.Empty(t, other)

	hub.RemoveWatcher("job-1", ch)
	hub.RemoveWatcher("job-2", other)
	// Publishing to a job with no watchers is a no-op
	hub.Publish(&ProgressEvent{JobID: "job-1", FramesScanned: 1})
}

func TestProgressHubDropsWhenFull(t *testing.T) {
	hub := NewProgressHub(logs.NewTestingLog(t))
	ch := hub.AddWatcher("slow")
	for i := 0; i < progressChannelSize*2; i++ {
		hub.Publish(&ProgressEvent{JobID: "slow", FramesScanned: i})
	}
	// The hub must never block, even with nobody draining the channel
	require.LessOrEqual(t, len(ch), progressChannelSize)
	hub.RemoveWatcher("slow", ch)
}
