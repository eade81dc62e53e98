// Package buttons polls the three physical buttons and emits
// debounced press events.
//
// Debounce is level-triggered: a press is accepted whenever the line
// is high and more than the debounce interval has passed since the
// last accepted press on the same button. Holding a button therefore
// repeats slowly, once per debounce interval.
package buttons

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/hw"
)

// ID identifies one of the three logical buttons.
type ID int

const (
	Mode ID = iota
	Confirm
	Exit
)

func (id ID) String() string {
	switch id {
	case Mode:
		return "mode"
	case Confirm:
		return "confirm"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Event is a single accepted button press.
type Event struct {
	Button ID
	At     time.Time
}

// Options tune the monitor. Zero values fall back to the defaults
// used on the device.
type Options struct {
	PollInterval time.Duration // default 50ms
	Debounce     time.Duration // default 500ms
	Clock        clock.Clock   // default wall clock
}

// Monitor polls button pins on a fixed cadence and delivers debounced
// press events on Events().
type Monitor struct {
	pins     map[ID]hw.Pin
	clk      clock.Clock
	interval time.Duration
	debounce time.Duration

	lastAccepted map[ID]time.Time

	events chan Event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewMonitor creates a monitor over the given pins. The pins must
// already be configured as inputs.
func NewMonitor(pins map[ID]hw.Pin, opts Options) *Monitor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 50 * time.Millisecond
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Monitor{
		pins:         pins,
		clk:          opts.Clock,
		interval:     opts.PollInterval,
		debounce:     opts.Debounce,
		lastAccepted: make(map[ID]time.Time),
		events:       make(chan Event, 8),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Events returns the channel of accepted presses.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Start begins polling in a background goroutine.
func (m *Monitor) Start() {
	go m.run()
}

// Stop halts polling. Safe to call more than once.
func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := m.clk.Ticker(m.interval)
	defer ticker.Stop()

	log.Info("button monitor started", "interval", m.interval, "debounce", m.debounce)
	for {
		select {
		case <-m.stop:
			log.Info("button monitor stopped")
			return
		case <-ticker.C:
			m.poll(m.clk.Now())
		}
	}
}

// poll reads every button once and emits events for accepted presses.
func (m *Monitor) poll(now time.Time) {
	// Stable order so simultaneous presses arrive in a fixed sequence.
	for _, id := range []ID{Mode, Confirm, Exit} {
		pin, ok := m.pins[id]
		if !ok {
			continue
		}
		level, err := pin.Read()
		if err != nil {
			// A failed read counts as "not pressed" for this poll.
			log.Warn("button read failed", "button", id.String(), "error", err)
			continue
		}
		if !level {
			continue
		}
		if now.Sub(m.lastAccepted[id]) <= m.debounce {
			continue
		}
		m.lastAccepted[id] = now
		log.Info("button pressed", "button", id.String())
		select {
		case m.events <- Event{Button: id, At: now}:
		default:
			// The controller has fallen behind; dropping is better
			// than stalling the poll loop.
			log.Warn("button event dropped", "button", id.String())
		}
	}
}
