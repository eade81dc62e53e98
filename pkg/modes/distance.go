package modes

import (
	"fmt"
	"time"
)

const (
	defaultDistanceInterval = time.Second
	defaultWarnDistance     = 100.0 // cm
)

// Ranger is the distance sensor boundary.
type Ranger interface {
	// Measure returns the distance in centimeters, or a large
	// sentinel value when no valid measurement was possible.
	Measure() float64
}

// Distance warns the user about nearby obstacles.
type Distance struct {
	runner
	speaker  Speaker
	sensor   Ranger
	interval time.Duration
	warnAt   float64
}

// NewDistance creates the distance warning worker. sensor may be nil
// when the hardware is missing; the worker then only announces the
// problem.
func NewDistance(speaker Speaker, sensor Ranger, opts Options) *Distance {
	opts.fill()
	if opts.Interval <= 0 {
		opts.Interval = defaultDistanceInterval
	}
	if opts.WarnDistance <= 0 {
		opts.WarnDistance = defaultWarnDistance
	}
	return &Distance{
		runner:   newRunner("distance", opts),
		speaker:  speaker,
		sensor:   sensor,
		interval: opts.Interval,
		warnAt:   opts.WarnDistance,
	}
}

// Start begins the measurement loop.
func (w *Distance) Start() {
	w.start(w.run)
}

func (w *Distance) run(stop <-chan struct{}) {
	if w.sensor == nil {
		w.speaker.Enqueue("Distance sensor not available")
		return
	}

	w.speaker.Enqueue("Distance measurement mode activated")

	// The first reading is always spoken so the user knows the
	// sensor is alive, whatever the value.
	first := w.sensor.Measure()
	w.speaker.Enqueue(fmt.Sprintf("Initial distance reading: %.1f centimeters", first))

	for {
		if !w.sleep(stop, w.interval) {
			return
		}
		// Sensor failures read as the far sentinel and stay silent.
		if d := w.sensor.Measure(); d < w.warnAt {
			w.speaker.Enqueue(fmt.Sprintf("Warning! Distance is %.1f centimeters", d))
		}
	}
}
