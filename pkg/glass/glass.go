// Package glass owns the mode state machine of the device.
//
// The Controller reacts to debounced button presses: the mode button
// cycles the selected mode, confirm starts the selected mode's
// background worker, exit returns to idle. At most one worker runs at
// a time; starting a new one always stops the previous one first.
package glass

import (
	"context"
	"sync"

	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/buttons"
	"github.com/visionaid/go-glass/pkg/modes"
)

// Mode is the operating mode of the device. Idle is the resting
// state; the four active modes cycle 1-2-3-4 under the mode button
// and never revisit Idle on their own.
type Mode int

const (
	Idle Mode = iota
	Time
	TextRecognition
	ObjectDetection
	Distance
)

const activeModes = 4

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle mode"
	case Time:
		return "time mode"
	case TextRecognition:
		return "text recognition and reading mode"
	case ObjectDetection:
		return "object detection mode"
	case Distance:
		return "distance measurements mode"
	}
	return "unknown mode"
}

// next returns the mode selected by a mode button press.
func (m Mode) next() Mode {
	if m == Idle {
		return Time
	}
	return Mode(int(m)%activeModes + 1)
}

// Announcer is the slice of the speech queue the controller drives.
type Announcer interface {
	Enqueue(text string)
	Interrupt()
	Stop()
}

// WorkerFactory builds the background worker for an active mode. It
// is called on confirm, once per activation; Idle is never passed.
type WorkerFactory func(m Mode) modes.Worker

// Controller is the orchestrator: current mode, the active worker and
// the speech queue, mutated only through button events and Shutdown.
type Controller struct {
	speech  Announcer
	workers WorkerFactory

	mu     sync.Mutex
	mode   Mode
	active modes.Worker
}

// New creates a controller resting in idle mode.
func New(speech Announcer, workers WorkerFactory) *Controller {
	return &Controller{
		speech:  speech,
		workers: workers,
	}
}

// Mode returns the currently selected mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// HandlePress applies one accepted button press to the state machine.
func (c *Controller) HandlePress(ev buttons.Event) {
	switch ev.Button {
	case buttons.Mode:
		c.selectNext()
	case buttons.Confirm:
		c.confirm()
	case buttons.Exit:
		c.exit()
	default:
		log.Warn("unknown button event", "button", ev.Button)
	}
}

// selectNext advances the selected mode without touching the worker.
// The previous worker, if any, keeps running until confirm or exit.
func (c *Controller) selectNext() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.speech.Interrupt()
	c.mode = c.mode.next()
	log.Info("mode selected", "mode", c.mode)
	c.speech.Enqueue("Switched to " + c.mode.String())
}

// confirm activates the selected mode: the previous worker is stopped
// before the new one starts, even when the mode is unchanged.
func (c *Controller) confirm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.speech.Interrupt()
	if c.mode == Idle {
		log.Info("confirm ignored in idle mode")
		return
	}

	c.speech.Enqueue(c.mode.String() + " selected")
	c.stopActiveLocked()

	w := c.workers(c.mode)
	if w == nil {
		log.Error("no worker for mode", "mode", c.mode)
		return
	}
	w.Start()
	c.active = w
	log.Info("mode confirmed", "mode", c.mode, "worker", w.Name())
}

// exit stops the active worker and returns to idle.
func (c *Controller) exit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopActiveLocked()
	c.speech.Interrupt()
	c.mode = Idle
	log.Info("returned to idle mode")
	c.speech.Enqueue("Glass is now in idle mode")
}

func (c *Controller) stopActiveLocked() {
	if c.active == nil {
		return
	}
	c.active.Stop()
	c.active = nil
}

// Shutdown stops the active worker and the speech consumer. Called
// once at process termination.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.stopActiveLocked()
	c.mode = Idle
	c.mu.Unlock()

	c.speech.Stop()
	log.Info("controller shut down")
}

// Run consumes button events until ctx is canceled or the event
// channel closes, then shuts the controller down.
func (c *Controller) Run(ctx context.Context, events <-chan buttons.Event) {
	c.speech.Enqueue("Smart Glass is running and ready")

	for {
		select {
		case <-ctx.Done():
			c.Shutdown()
			return
		case ev, ok := <-events:
			if !ok {
				c.Shutdown()
				return
			}
			c.HandlePress(ev)
		}
	}
}
