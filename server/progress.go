package server

import (
	"net/http"
	"slices"
	"sync"

	"github.com/cyclopcam/logs"
	"github.com/julienschmidt/httprouter"
)

// SYNC-PROGRESS-CHANNEL-SIZE
const progressChannelSize = 100

// ProgressEvent is one update on a running analysis job.
type ProgressEvent struct {
	JobID         string `json:"jobID"`
	FramesScanned int    `json:"framesScanned"`
	PosesFound    int    `json:"posesFound"`
	Done          bool   `json:"done"`
}

// ProgressHub fans analysis progress out to websocket watchers, keyed by job.
type ProgressHub struct {
	log          logs.Log
	watchersLock sync.RWMutex
	watchers     map[string][]chan *ProgressEvent
}

func NewProgressHub(log logs.Log) *ProgressHub {
	return &ProgressHub{
		log:      log,
		watchers: map[string][]chan *ProgressEvent{},
	}
}

// Register to receive progress events for a specific job.
func (h *ProgressHub) AddWatcher(jobID string) chan *ProgressEvent {
	h.watchersLock.Lock()
	defer h.watchersLock.Unlock()
	ch := make(chan *ProgressEvent, progressChannelSize)
	h.watchers[jobID] = append(h.watchers[jobID], ch)
	return ch
}

// Unregister from progress events for a specific job.
func (h *ProgressHub) RemoveWatcher(jobID string, ch chan *ProgressEvent) {
	h.watchersLock.Lock()
	defer h.watchersLock.Unlock()
	for i, w := range h.watchers[jobID] {
		if w == ch {
			h.watchers[jobID] = slices.Delete(h.watchers[jobID], i, i+1)
			if len(h.watchers[jobID]) == 0 {
				delete(h.watchers, jobID)
			}
			return
		}
	}
	h.log.Warnf("ProgressHub.RemoveWatcher failed to find channel for job %v", jobID)
}

func (h *ProgressHub) Publish(ev *ProgressEvent) {
	h.watchersLock.RLock()
	for _, ch := range h.watchers[ev.JobID] {
		// SYNC-PROGRESS-CHANNEL-SIZE
		if len(ch) >= cap(ch)*9/10 {
			// A stalled watcher must not stall the analysis, so we drop events.
			h.log.Warnf("Progress watcher on job %v is falling behind. I am going to drop events.", ev.JobID)
		} else {
			ch <- ev
		}
	}
	h.watchersLock.RUnlock()
}

// Websocket feed of analysis progress for one job.
// The connection closes after the job's final (done) event.
func (s *Server) httpProgressFeed(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	jobID := params.ByName("jobID")
	c, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Errorf("httpProgressFeed websocket upgrade failed: %v", err)
		return
	}
	defer c.Close()

	ch := s.progress.AddWatcher(jobID)
	defer s.progress.RemoveWatcher(jobID, ch)

	for {
		select {
		case ev := <-ch:
			if err := c.WriteJSON(ev); err != nil {
				s.Log.Infof("Error writing to progress websocket for job %v: %v", jobID, err)
				return
			}
			if ev.Done {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
