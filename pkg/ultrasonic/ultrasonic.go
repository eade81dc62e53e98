// Package ultrasonic drives an HC-SR04 style trigger/echo sensor.
package ultrasonic

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/hw"
)

// OutOfRange is the sentinel distance (cm) returned when no valid
// measurement could be taken. It sits far beyond any warning
// threshold, so callers treat it as "nothing nearby".
const OutOfRange = 999.0

const triggerPulse = 10 * time.Microsecond

// Options tune the sensor. Zero values fall back to device defaults.
type Options struct {
	EchoTimeout  time.Duration // per wait phase, default 100ms
	SpeedOfSound float64       // m/s, default 343
	Clock        clock.Clock   // default wall clock
}

// Sensor measures distance over a trigger/echo GPIO pair.
type Sensor struct {
	trig    hw.Pin
	echo    hw.Pin
	clk     clock.Clock
	timeout time.Duration
	speed   float64
}

// New creates a sensor and configures its pins.
func New(trig, echo hw.Pin, opts Options) (*Sensor, error) {
	if opts.EchoTimeout <= 0 {
		opts.EchoTimeout = 100 * time.Millisecond
	}
	if opts.SpeedOfSound <= 0 {
		opts.SpeedOfSound = 343
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	if err := trig.Configure(hw.Output, hw.PullNone); err != nil {
		return nil, err
	}
	if err := echo.Configure(hw.Input, hw.PullNone); err != nil {
		return nil, err
	}
	if err := trig.Write(false); err != nil {
		return nil, err
	}

	return &Sensor{
		trig:    trig,
		echo:    echo,
		clk:     opts.Clock,
		timeout: opts.EchoTimeout,
		speed:   opts.SpeedOfSound,
	}, nil
}

// Measure fires the trigger and returns the measured distance in
// centimeters, or OutOfRange if either echo phase times out or a pin
// fails. Each wait phase is bounded against a timestamp captured once
// at phase start, so the timeout is always reachable.
func (s *Sensor) Measure() float64 {
	if err := s.trig.Write(true); err != nil {
		log.Warn("ultrasonic trigger failed", "error", err)
		return OutOfRange
	}
	s.spinWait(triggerPulse)
	if err := s.trig.Write(false); err != nil {
		log.Warn("ultrasonic trigger failed", "error", err)
		return OutOfRange
	}

	// Phase 1: wait for the echo line to rise.
	rise, ok := s.waitLevel(true, s.clk.Now())
	if !ok {
		return OutOfRange
	}

	// Phase 2: wait for it to fall again, timed from the rise.
	fall, ok := s.waitLevel(false, rise)
	if !ok {
		return OutOfRange
	}

	return distanceCM(fall.Sub(rise), s.speed)
}

// distanceCM converts a round-trip echo pulse into centimeters.
func distanceCM(pulse time.Duration, speedOfSound float64) float64 {
	distance := pulse.Seconds() * speedOfSound * 100 / 2
	if distance < 0 {
		return 0
	}
	return distance
}

// waitLevel spins until the echo line reads want, returning the
// transition time. phaseStart is fixed for the whole phase; elapsed
// time is recomputed against it on every iteration.
func (s *Sensor) waitLevel(want bool, phaseStart time.Time) (time.Time, bool) {
	for {
		level, err := s.echo.Read()
		if err != nil {
			log.Warn("ultrasonic echo read failed", "error", err)
			return time.Time{}, false
		}
		if level == want {
			return s.clk.Now(), true
		}
		if s.clk.Now().Sub(phaseStart) > s.timeout {
			return time.Time{}, false
		}
	}
}

// spinWait busy-waits for very short durations where timer
// granularity would stretch the trigger pulse.
func (s *Sensor) spinWait(d time.Duration) {
	start := s.clk.Now()
	for s.clk.Now().Sub(start) < d {
	}
}
