package drivers

import (
	"context"
)

type IoDriver interface {
	Setup(ctx context.Context, inputs []uint16, outputs []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetInput(pin uint16) (DigitalInput, error)
	GetOutput(pin uint16) (DigitalOutput, error)
	GetAllIo() (inputs []uint16, outputs []uint16)
}

func MapAllIoDrivers() map[string]IoDriver {
	drivers := []IoDriver{
		&GpIO{},
		&McpIO{},
		&PeriphIO{},
		&MockIoDriver{},
	}

	mapped := make(map[string]IoDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}

type DigitalInput interface {
	GetState() (bool, error)
}

type DigitalOutput interface {
	GetState() (bool, error)
	Set(bool) error
}

// Pull selects the pull resistor configured on every input pin of a driver.
// Safety inputs are wired normally-closed to the supply rail, so the default
// is pull-down: an open or cut line reads low, which the safety circuit
// treats as triggered.
type Pull string

const (
	PullDown Pull = "down"
	PullUp   Pull = "up"
	PullOff  Pull = "off"
)
