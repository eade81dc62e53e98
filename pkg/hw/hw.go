// Package hw is the GPIO capability boundary for go-glass.
//
// The rest of the tree only sees Pin and Chip; the periph-backed
// implementation lives in periph.go and a scriptable fake for tests
// lives in fake.go.
package hw

import "errors"

// Direction selects whether a pin is driven or read.
type Direction int

const (
	Input Direction = iota
	Output
)

// Pull selects the input bias resistor.
type Pull int

const (
	PullNone Pull = iota
	PullDown
	PullUp
)

// ErrNoPin is returned when a named GPIO line does not exist.
var ErrNoPin = errors.New("hw: no such pin")

// Pin is a single GPIO line.
type Pin interface {
	// Configure sets the pin direction and, for inputs, the bias.
	Configure(dir Direction, pull Pull) error

	// Read returns the instantaneous level of an input pin.
	Read() (bool, error)

	// Write drives an output pin high or low.
	Write(high bool) error
}

// Chip hands out pins by name and owns their release.
type Chip interface {
	// Pin resolves a GPIO line by name (e.g. "GPIO16").
	Pin(name string) (Pin, error)

	// Close releases all pins handed out by this chip.
	Close() error
}
