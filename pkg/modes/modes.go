// Package modes implements the background workers backing each
// operating mode.
//
// A worker is a cancellable loop: Start spawns it, Stop asks it to
// finish and waits up to a bounded join timeout. Cancellation is
// cooperative only; loops check the stop channel at every boundary
// and before and after blocking calls. A worker that ignores its stop
// channel is abandoned with a log line rather than hanging the
// controller.
package modes

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/visionaid/go-glass/internal/log"
)

// Speaker is the narrow slice of the speech queue workers need.
type Speaker interface {
	Enqueue(text string)
}

// Worker is one mode's background activity.
type Worker interface {
	// Name identifies the worker in logs.
	Name() string

	// Start spawns the worker loop. Starting a running worker is a
	// no-op.
	Start()

	// Stop cancels the loop and joins it with a bounded timeout.
	Stop()

	// Running reports whether the loop has been started and not yet
	// stopped.
	Running() bool
}

// Options tune worker timing. Zero values fall back to per-worker
// defaults; fields that do not apply to a worker are ignored.
type Options struct {
	Clock       clock.Clock
	JoinTimeout time.Duration // bounded join on Stop, default 1s

	Interval       time.Duration // per-iteration period
	CaptureBackoff time.Duration // retry delay after a failed frame grab

	Confidence      float64 // objects: minimum detection confidence
	ChangeThreshold float64 // objects: symmetric difference ratio to re-announce

	WarnDistance float64 // distance: warning threshold in cm
}

func (o *Options) fill() {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = time.Second
	}
	if o.CaptureBackoff <= 0 {
		o.CaptureBackoff = 2 * time.Second
	}
}

// runner hosts one cancellable loop and implements the lifecycle half
// of Worker. Concrete workers embed it and provide the loop body.
type runner struct {
	name        string
	clk         clock.Clock
	joinTimeout time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newRunner(name string, opts Options) runner {
	return runner{
		name:        name,
		clk:         opts.Clock,
		joinTimeout: opts.JoinTimeout,
	}
}

func (r *runner) Name() string {
	return r.name
}

func (r *runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// start spawns body in a goroutine. The body must return promptly
// once the stop channel closes.
func (r *runner) start(body func(stop <-chan struct{})) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		log.Warn("worker already running", "worker", r.name)
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	stop, done := r.stopCh, r.doneCh
	r.mu.Unlock()

	go func() {
		defer close(done)
		// A panic in a worker must not take the whole device down.
		defer func() {
			if v := recover(); v != nil {
				log.Error("worker panicked", "worker", r.name, "panic", v)
			}
		}()
		body(stop)
	}()
	log.Info("worker started", "worker", r.name)
}

// Stop cancels the loop and waits for it, bounded by the join
// timeout. On timeout the goroutine is abandoned: the handle is
// released and the non-termination logged.
func (r *runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	done := r.doneCh
	r.mu.Unlock()

	select {
	case <-done:
		log.Info("worker stopped", "worker", r.name)
	case <-time.After(r.joinTimeout):
		log.Warn("worker did not stop in time, abandoning", "worker", r.name, "timeout", r.joinTimeout)
	}
}

// sleep waits for d or until stop closes. Returns false when the
// worker should exit.
func (r *runner) sleep(stop <-chan struct{}, d time.Duration) bool {
	select {
	case <-stop:
		return false
	case <-r.clk.After(d):
		return true
	}
}
