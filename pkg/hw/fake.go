package hw

import (
	"sync"
)

// FakeChip is an in-memory Chip for tests and for running on a
// machine without GPIO hardware. Pins spring into existence on first
// use and levels can be set from the test side.
type FakeChip struct {
	mu   sync.Mutex
	pins map[string]*FakePin
}

// NewFakeChip creates an empty fake chip.
func NewFakeChip() *FakeChip {
	return &FakeChip{pins: make(map[string]*FakePin)}
}

// Pin returns the named fake pin, creating it if needed.
func (c *FakeChip) Pin(name string) (Pin, error) {
	return c.FakePin(name), nil
}

// FakePin is like Pin but returns the concrete type so tests can
// drive levels directly.
func (c *FakeChip) FakePin(name string) *FakePin {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pins[name]
	if !ok {
		p = &FakePin{}
		c.pins[name] = p
	}
	return p
}

func (c *FakeChip) Close() error {
	return nil
}

// FakePin is a scriptable GPIO line.
// ReadFunc, when set, overrides the stored level entirely; this is
// how tests simulate read errors and time-varying signals.
type FakePin struct {
	mu    sync.Mutex
	level bool
	dir   Direction
	pull  Pull

	ReadFunc func() (bool, error)
}

func (p *FakePin) Configure(dir Direction, pull Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dir = dir
	p.pull = pull
	return nil
}

func (p *FakePin) Read() (bool, error) {
	p.mu.Lock()
	fn := p.ReadFunc
	level := p.level
	p.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return level, nil
}

func (p *FakePin) Write(high bool) error {
	p.mu.Lock()
	p.level = high
	p.mu.Unlock()
	return nil
}

// Set drives the pin level from the test side.
func (p *FakePin) Set(high bool) {
	p.mu.Lock()
	p.level = high
	p.mu.Unlock()
}

// Level returns the last written or set level.
func (p *FakePin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}
