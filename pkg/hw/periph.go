package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// periphChip resolves pins through periph's host drivers.
type periphChip struct{}

// Open initializes the periph host drivers and returns a Chip backed
// by the real GPIO hardware.
func Open() (Chip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hw: host init: %w", err)
	}
	return &periphChip{}, nil
}

func (c *periphChip) Pin(name string) (Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPin, name)
	}
	return &periphPin{pin: p}, nil
}

func (c *periphChip) Close() error {
	return nil
}

type periphPin struct {
	pin gpio.PinIO
}

func (p *periphPin) Configure(dir Direction, pull Pull) error {
	if dir == Output {
		return p.pin.Out(gpio.Low)
	}

	var bias gpio.Pull
	switch pull {
	case PullDown:
		bias = gpio.PullDown
	case PullUp:
		bias = gpio.PullUp
	default:
		bias = gpio.Float
	}
	return p.pin.In(bias, gpio.NoEdge)
}

func (p *periphPin) Read() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *periphPin) Write(high bool) error {
	if high {
		return p.pin.Out(gpio.High)
	}
	return p.pin.Out(gpio.Low)
}
