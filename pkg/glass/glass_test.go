package glass

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/visionaid/go-glass/pkg/buttons"
	"github.com/visionaid/go-glass/pkg/modes"
)

// recorder implements Announcer and modes.Speaker, keeping the full
// utterance history so ordering can be asserted.
type recorder struct {
	mu         sync.Mutex
	spoken     []string
	interrupts int
	stopped    bool
}

func (r *recorder) Enqueue(text string) {
	r.mu.Lock()
	r.spoken = append(r.spoken, text)
	r.mu.Unlock()
}

func (r *recorder) Interrupt() {
	r.mu.Lock()
	r.interrupts++
	r.mu.Unlock()
}

func (r *recorder) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

func (r *recorder) Spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.spoken))
	copy(out, r.spoken)
	return out
}

func (r *recorder) waitFor(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.Spoken(); len(got) >= n {
			return got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("wanted %d utterances, got %v", n, r.Spoken())
	return nil
}

// fakeWorker records lifecycle calls into a shared event log.
type fakeWorker struct {
	name string
	logf func(ev string)

	mu      sync.Mutex
	running bool
}

func (w *fakeWorker) Name() string { return w.name }

func (w *fakeWorker) Start() {
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	w.logf("start:" + w.name)
}

func (w *fakeWorker) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	w.logf("stop:" + w.name)
}

func (w *fakeWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// testHarness wires a controller to a recorder and a worker factory
// that hands out numbered fake workers.
type testHarness struct {
	ctrl    *Controller
	speech  *recorder
	mu      sync.Mutex
	events  []string
	workers []*fakeWorker
}

func newHarness() *testHarness {
	h := &testHarness{speech: &recorder{}}
	h.ctrl = New(h.speech, func(m Mode) modes.Worker {
		h.mu.Lock()
		defer h.mu.Unlock()
		w := &fakeWorker{
			name: fmt.Sprintf("%s#%d", m, len(h.workers)+1),
			logf: h.logEvent,
		}
		h.workers = append(h.workers, w)
		return w
	})
	return h
}

func (h *testHarness) logEvent(ev string) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

func (h *testHarness) eventLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

func press(c *Controller, b buttons.ID) {
	c.HandlePress(buttons.Event{Button: b, At: time.Now()})
}

func TestModeNames(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Idle, "idle mode"},
		{Time, "time mode"},
		{TextRecognition, "text recognition and reading mode"},
		{ObjectDetection, "object detection mode"},
		{Distance, "distance measurements mode"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestModeButtonCyclesWithoutRevisitingIdle(t *testing.T) {
	h := newHarness()

	want := []Mode{Time, TextRecognition, ObjectDetection, Distance, Time, TextRecognition}
	for i, m := range want {
		press(h.ctrl, buttons.Mode)
		if got := h.ctrl.Mode(); got != m {
			t.Fatalf("press %d: mode = %v, want %v", i+1, got, m)
		}
	}

	spoken := h.speech.Spoken()
	if spoken[0] != "Switched to time mode" {
		t.Errorf("first utterance = %q", spoken[0])
	}
	if spoken[4] != "Switched to time mode" {
		t.Errorf("wraparound utterance = %q", spoken[4])
	}
	if len(h.eventLog()) != 0 {
		t.Errorf("mode button touched workers: %v", h.eventLog())
	}
}

func TestConfirmInIdleIsNoop(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Confirm)

	if got := h.ctrl.Mode(); got != Idle {
		t.Errorf("mode = %v, want Idle", got)
	}
	if spoken := h.speech.Spoken(); len(spoken) != 0 {
		t.Errorf("idle confirm spoke %v", spoken)
	}
	if len(h.workers) != 0 {
		t.Error("idle confirm built a worker")
	}
}

func TestConfirmStartsWorker(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Mode)
	press(h.ctrl, buttons.Confirm)

	spoken := h.speech.Spoken()
	if spoken[1] != "time mode selected" {
		t.Errorf("confirm utterance = %q", spoken[1])
	}
	if got := h.eventLog(); len(got) != 1 || got[0] != "start:time mode#1" {
		t.Fatalf("worker events = %v", got)
	}
	if !h.workers[0].Running() {
		t.Error("confirmed worker is not running")
	}
}

func TestConfirmStopsPreviousWorkerFirst(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Mode) // time
	press(h.ctrl, buttons.Confirm)
	press(h.ctrl, buttons.Mode) // text recognition
	press(h.ctrl, buttons.Confirm)

	want := []string{
		"start:time mode#1",
		"stop:time mode#1",
		"start:text recognition and reading mode#2",
	}
	if got := h.eventLog(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("worker events = %v, want %v", got, want)
	}
}

func TestReconfirmRestartsWorker(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Mode)
	press(h.ctrl, buttons.Confirm)
	press(h.ctrl, buttons.Confirm)

	want := []string{
		"start:time mode#1",
		"stop:time mode#1",
		"start:time mode#2",
	}
	if got := h.eventLog(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("worker events = %v, want %v", got, want)
	}
}

func TestExitReturnsToIdleAndStopsWorker(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Mode)
	press(h.ctrl, buttons.Confirm)
	press(h.ctrl, buttons.Exit)

	if got := h.ctrl.Mode(); got != Idle {
		t.Errorf("mode = %v, want Idle", got)
	}
	if h.workers[0].Running() {
		t.Error("worker still running after exit")
	}
	if got := h.eventLog(); got[len(got)-1] != "stop:time mode#1" {
		t.Errorf("worker events = %v", got)
	}
	spoken := h.speech.Spoken()
	if spoken[len(spoken)-1] != "Glass is now in idle mode" {
		t.Errorf("exit utterance = %q", spoken[len(spoken)-1])
	}
}

func TestExitFromIdleStillAnnounces(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Exit)

	if got := h.ctrl.Mode(); got != Idle {
		t.Errorf("mode = %v, want Idle", got)
	}
	spoken := h.speech.Spoken()
	if len(spoken) != 1 || spoken[0] != "Glass is now in idle mode" {
		t.Errorf("spoken = %v", spoken)
	}
}

func TestShutdownStopsWorkerAndSpeech(t *testing.T) {
	h := newHarness()

	press(h.ctrl, buttons.Mode)
	press(h.ctrl, buttons.Confirm)
	h.ctrl.Shutdown()

	if h.workers[0].Running() {
		t.Error("worker still running after shutdown")
	}
	if !h.speech.stopped {
		t.Error("speech consumer not stopped")
	}
	if got := h.ctrl.Mode(); got != Idle {
		t.Errorf("mode after shutdown = %v, want Idle", got)
	}
}

func TestRunEndToEnd(t *testing.T) {
	spk := &recorder{}
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 5, 4, 15, 30, 0, 0, time.UTC))

	ctrl := New(spk, func(m Mode) modes.Worker {
		if m != Time {
			t.Errorf("factory called for %v", m)
		}
		return modes.NewTime(spk, modes.Options{Clock: mock})
	})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan buttons.Event)
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx, events)
		close(done)
	}()

	events <- buttons.Event{Button: buttons.Mode, At: time.Now()}
	events <- buttons.Event{Button: buttons.Confirm, At: time.Now().Add(600 * time.Millisecond)}

	want := []string{
		"Smart Glass is running and ready",
		"Switched to time mode",
		"time mode selected",
		"Time mode activated",
		"The current time is 03:30 PM",
	}
	got := spk.waitFor(t, len(want))
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("utterance %d = %q, want %q", i, got[i], want[i])
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if !spk.stopped {
		t.Error("shutdown did not stop the speech consumer")
	}
}
