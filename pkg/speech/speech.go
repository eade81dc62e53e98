// Package speech serializes spoken feedback to the user.
//
// Queue is an ordered, interruptible queue of utterances drained by a
// single consumer goroutine. Exactly one utterance plays at a time;
// Enqueue never blocks; Interrupt stops the current playback and drops
// everything pending. A generation counter makes dequeues that raced
// with an interrupt detectable, so nothing enqueued before an
// interrupt is ever spoken after it.
package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/visionaid/go-glass/internal/log"
)

// Speaker is the external speech service boundary.
type Speaker interface {
	// Speak blocks until the utterance finishes playing, Stop is
	// called, or ctx is canceled.
	Speak(ctx context.Context, text string) error

	// Stop halts the current playback, if any.
	Stop()
}

// Options tune the queue. Zero values fall back to defaults.
type Options struct {
	IdlePoll time.Duration // recheck interval when empty, default 100ms
	Clock    clock.Clock   // default wall clock
}

// Queue is the utterance queue.
type Queue struct {
	speaker  Speaker
	clk      clock.Clock
	idlePoll time.Duration

	mu      sync.Mutex
	pending []string
	gen     uint64
	cancel  context.CancelFunc // in-flight utterance, if any

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewQueue creates a queue over the given speaker. Call Start to
// begin draining.
func NewQueue(speaker Speaker, opts Options) *Queue {
	if opts.IdlePoll <= 0 {
		opts.IdlePoll = 100 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Queue{
		speaker:  speaker,
		clk:      opts.Clock,
		idlePoll: opts.IdlePoll,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the consumer goroutine.
func (q *Queue) Start() {
	go q.run()
}

// Enqueue appends an utterance. Never blocks; callable from any
// goroutine, including mode workers.
func (q *Queue) Enqueue(text string) {
	q.mu.Lock()
	q.pending = append(q.pending, text)
	q.mu.Unlock()
	log.Debug("speech queued", "text", text)
}

// Interrupt stops the current playback and drops all pending
// utterances. Utterances enqueued after Interrupt play normally.
func (q *Queue) Interrupt() {
	q.mu.Lock()
	q.gen++
	q.pending = nil
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	q.speaker.Stop()
	log.Debug("speech interrupted")
}

// Stop terminates the consumer loop and waits for it to exit. The
// in-flight utterance, if any, is cut short.
func (q *Queue) Stop() {
	q.once.Do(func() {
		close(q.stop)
		q.mu.Lock()
		cancel := q.cancel
		q.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		q.speaker.Stop()
	})
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		select {
		case <-q.stop:
			return
		default:
		}

		text, gen, ctx, cancel, ok := q.pop()
		if !ok {
			select {
			case <-q.stop:
				return
			case <-q.clk.After(q.idlePoll):
			}
			continue
		}

		q.play(text, gen, ctx, cancel)
	}
}

// pop removes the head utterance and registers a cancel func for it.
func (q *Queue) pop() (text string, gen uint64, ctx context.Context, cancel context.CancelFunc, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", 0, nil, nil, false
	}
	text = q.pending[0]
	q.pending = q.pending[1:]
	gen = q.gen

	ctx, cancel = context.WithCancel(context.Background())
	q.cancel = cancel
	return text, gen, ctx, cancel, true
}

// play speaks one utterance unless an interrupt has made it stale.
func (q *Queue) play(text string, gen uint64, ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		cancel()
		q.mu.Lock()
		q.cancel = nil
		q.mu.Unlock()
	}()

	q.mu.Lock()
	stale := gen != q.gen
	q.mu.Unlock()
	if stale {
		log.Debug("speech dropped by interrupt", "text", text)
		return
	}

	if err := q.speaker.Speak(ctx, text); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("speech playback failed", "text", text, "error", err)
	}
}
