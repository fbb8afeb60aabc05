package hid

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

const DefaultGadgetPath = "/dev/hidg0"

// boot protocol keyboard report: modifiers, reserved, six key slots
const reportLength = 8
const maxPressed = 6

// Gadget is a Keyboard writing boot-protocol reports to a Linux USB HID
// gadget character device (configfs g_hid function on the device-mode USB
// port). Single writer, no locking: only the control loop touches it.
type Gadget struct {
	device  io.WriteCloser
	pressed []Keycode
}

func OpenGadget(path string) (*Gadget, error) {
	if len(path) == 0 {
		path = DefaultGadgetPath
	}

	device, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open hid gadget device %s", path)
	}

	return &Gadget{device: device}, nil
}

func (g *Gadget) writeReport() error {
	report := make([]byte, reportLength)
	for slot, key := range g.pressed {
		report[2+slot] = byte(key)
	}

	_, err := g.device.Write(report)
	return errors.Wrap(err, "failed to write hid report")
}

func (g *Gadget) Press(key Keycode) error {
	for _, down := range g.pressed {
		if down == key {
			return nil
		}
	}

	if len(g.pressed) >= maxPressed {
		return errors.Errorf("hid report full, %d keys already down", maxPressed)
	}

	g.pressed = append(g.pressed, key)
	return g.writeReport()
}

func (g *Gadget) ReleaseAll() error {
	g.pressed = g.pressed[:0]
	return g.writeReport()
}

func (g *Gadget) Close() error {
	return g.device.Close()
}
