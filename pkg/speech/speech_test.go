package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSpeaker records utterances. When blocking is enabled, Speak
// parks until the utterance's context is canceled or the release
// channel fires, like a real playback call.
type fakeSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	stops   int
	release chan struct{} // nil means Speak returns immediately
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	release := f.release
	f.mu.Unlock()

	if release == nil {
		return nil
	}
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSpeaker) Stop() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *fakeSpeaker) Spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.spoken))
	copy(out, f.spoken)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached within 2s")
}

func newTestQueue(sp Speaker) *Queue {
	return NewQueue(sp, Options{IdlePoll: time.Millisecond})
}

func TestQueueFIFOOrder(t *testing.T) {
	sp := &fakeSpeaker{}
	q := newTestQueue(sp)
	q.Enqueue("one")
	q.Enqueue("two")
	q.Enqueue("three")
	q.Start()
	defer q.Stop()

	waitFor(t, func() bool { return len(sp.Spoken()) == 3 })

	got := sp.Spoken()
	want := []string{"one", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("utterance %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInterruptDropsPendingAndStopsPlayback(t *testing.T) {
	sp := &fakeSpeaker{release: make(chan struct{})}
	q := newTestQueue(sp)
	q.Enqueue("current")
	q.Enqueue("doomed-1")
	q.Enqueue("doomed-2")
	q.Start()
	defer q.Stop()

	// Wait until "current" is in flight, then interrupt.
	waitFor(t, func() bool { return len(sp.Spoken()) == 1 })
	q.Interrupt()
	q.Enqueue("after")

	waitFor(t, func() bool {
		for _, s := range sp.Spoken() {
			if s == "after" {
				return true
			}
		}
		return false
	})

	for _, s := range sp.Spoken() {
		if s == "doomed-1" || s == "doomed-2" {
			t.Errorf("utterance %q enqueued before interrupt was spoken after it", s)
		}
	}
	sp.mu.Lock()
	stops := sp.stops
	sp.mu.Unlock()
	if stops == 0 {
		t.Error("interrupt did not stop the external speaker")
	}
}

func TestInterruptBeforeStart(t *testing.T) {
	sp := &fakeSpeaker{}
	q := newTestQueue(sp)
	q.Enqueue("stale")
	q.Interrupt()
	q.Enqueue("fresh")
	q.Start()
	defer q.Stop()

	waitFor(t, func() bool { return len(sp.Spoken()) >= 1 })
	got := sp.Spoken()
	if got[0] != "fresh" {
		t.Errorf("got %q, want %q", got[0], "fresh")
	}
}

func TestStaleDequeueDiscarded(t *testing.T) {
	// Drives pop/play directly to hit the window where the consumer
	// has already popped when the interrupt lands.
	sp := &fakeSpeaker{}
	q := newTestQueue(sp)
	q.Enqueue("popped-then-interrupted")

	text, gen, ctx, cancel, ok := q.pop()
	if !ok {
		t.Fatal("pop returned empty")
	}
	q.Interrupt()
	q.play(text, gen, ctx, cancel)

	if n := len(sp.Spoken()); n != 0 {
		t.Errorf("stale dequeue was spoken (%d utterances)", n)
	}
}

func TestStopCutsShortInFlightUtterance(t *testing.T) {
	sp := &fakeSpeaker{release: make(chan struct{})}
	q := newTestQueue(sp)
	q.Enqueue("droning on")
	q.Start()

	waitFor(t, func() bool { return len(sp.Spoken()) == 1 })

	finished := make(chan struct{})
	go func() {
		q.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on in-flight utterance")
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	sp := &fakeSpeaker{}
	q := newTestQueue(sp)
	// No consumer running; a large burst must still be accepted.
	for i := 0; i < 10000; i++ {
		q.Enqueue("burst")
	}
	q.mu.Lock()
	n := len(q.pending)
	q.mu.Unlock()
	if n != 10000 {
		t.Errorf("got %d pending, want 10000", n)
	}
}

func TestSpeakErrorKeepsConsumerAlive(t *testing.T) {
	sp := &erroringSpeaker{}
	q := newTestQueue(sp)
	q.Enqueue("fails")
	q.Enqueue("still spoken")
	q.Start()
	defer q.Stop()

	waitFor(t, func() bool { return sp.Count() == 2 })
}

type erroringSpeaker struct {
	mu    sync.Mutex
	count int
}

func (e *erroringSpeaker) Speak(ctx context.Context, text string) error {
	e.mu.Lock()
	e.count++
	e.mu.Unlock()
	return errors.New("playback device hiccup")
}

func (e *erroringSpeaker) Stop() {}

func (e *erroringSpeaker) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
