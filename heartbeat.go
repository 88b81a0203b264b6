package vogprep

import (
	"sync"
	"time"
)

// A Heartbeat periodically invokes a callback while a long step runs. The
// original pipeline printed a timestamped line during multi-hour steps so
// that remote shells were not disconnected for inactivity; the command
// line tools do the same around table builds and tagging loops. The
// heartbeat never alters engine output.
type Heartbeat struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartHeartbeat invokes f every interval until Stop is called. An
// interval of zero disables the heartbeat and returns a no-op handle.
func StartHeartbeat(interval time.Duration, f func(elapsed time.Duration)) *Heartbeat {
	h := &Heartbeat{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if interval <= 0 {
		close(h.done)
		return h
	}

	start := time.Now()
	ticker := time.NewTicker(interval)
	go func() {
		defer close(h.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f(time.Since(start))
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for any in-flight callback to return.
// Stopping twice is safe.
func (h *Heartbeat) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}
