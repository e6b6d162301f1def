package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/katalvlaran/pathviz/session"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

// Recorder writes summaries to a Store from a background goroutine.
// It implements session.Recorder.
type Recorder struct {
	st    *Store
	queue chan session.RunSummary
	wg    sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped int
	err     error // first write error
}

// NewRecorder starts the background writer for st.
func NewRecorder(st *Store) *Recorder {
	r := &Recorder{
		st:    st,
		queue: make(chan session.RunSummary, queueSize),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Record enqueues sum without blocking. After Close, or with a full queue,
// the summary is counted as dropped.
func (r *Recorder) Record(sum session.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.dropped++
		return
	}
	select {
	case r.queue <- sum:
	default:
		r.dropped++
	}
}

// Dropped returns how many summaries were never queued.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close stops accepting summaries, waits for the queue to drain and returns
// the first write error, if any. It does not close the Store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	for sum := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		_, err := r.st.Insert(ctx, sum)
		cancel()
		if err != nil {
			r.mu.Lock()
			if r.err == nil {
				r.err = err
			}
			r.mu.Unlock()
		}
	}
}

var _ session.Recorder = (*Recorder)(nil)
