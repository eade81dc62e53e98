package audio

import (
	"context"
	"sync"
	"time"
)

// Fake implements Player for tests. Each Play "runs" for PlayTime (or
// returns immediately when zero) and can be interrupted by Stop or
// context cancellation, like the real device.
type Fake struct {
	// PlayTime is how long each playback pretends to take.
	PlayTime time.Duration

	// PlayFunc, when set, replaces the default behavior entirely.
	PlayFunc func(ctx context.Context, mp3Data []byte) error

	mu     sync.Mutex
	plays  int
	stops  int
	abort  chan struct{}
	closed bool
}

// Play records the call and simulates playback.
func (f *Fake) Play(ctx context.Context, mp3Data []byte) error {
	if f.PlayFunc != nil {
		return f.PlayFunc(ctx, mp3Data)
	}

	abort := make(chan struct{})
	f.mu.Lock()
	f.plays++
	f.abort = abort
	f.mu.Unlock()

	if f.PlayTime <= 0 {
		return nil
	}
	select {
	case <-time.After(f.PlayTime):
		return nil
	case <-abort:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop aborts the simulated playback.
func (f *Fake) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.abort != nil {
		close(f.abort)
		f.abort = nil
	}
}

// Close marks the player closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Plays returns how many playbacks were started.
func (f *Fake) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// Stops returns how many times Stop was called.
func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}
