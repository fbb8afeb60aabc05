package drivers

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const periphDriverName = "periph"

// PeriphIO drives GPIO through periph.io pin registry lookup. It covers
// boards where the memory-mapped rpio driver is not available; pins are
// addressed by their BCM numbers, same as GpIO.
type PeriphIO struct {
	inputs  []PeriphInput
	outputs []PeriphOutput

	Pull          Pull
	InvertInputs  bool
	InvertOutputs bool

	isReady bool
}

type PeriphInput struct {
	pin    uint16
	invert bool

	gpio gpio.PinIO
}

type PeriphOutput struct {
	pin    uint16
	invert bool

	gpio gpio.PinIO
}

func (pi *PeriphInput) GetState() (state bool, err error) {
	if pi.invert {
		state = pi.gpio.Read() == gpio.Low
	} else {
		state = pi.gpio.Read() == gpio.High
	}

	return
}

func (po *PeriphOutput) Set(state bool) error {
	if po.invert {
		state = !state
	}

	return po.gpio.Out(gpio.Level(state))
}

func (po *PeriphOutput) GetState() (state bool, err error) {
	if po.invert {
		state = po.gpio.Read() == gpio.Low
	} else {
		state = po.gpio.Read() == gpio.High
	}

	return
}

func (pio *PeriphIO) pullResistor() gpio.Pull {
	switch pio.Pull {
	case PullUp:
		return gpio.PullUp
	case PullOff:
		return gpio.Float
	default:
		return gpio.PullDown
	}
}

func (pio *PeriphIO) Setup(ctx context.Context, inputs []uint16, outputs []uint16) error {
	_, err := host.Init()
	if err != nil {
		return errors.Wrap(err, "failed to init periph host")
	}

	for _, inPin := range inputs {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", inPin))
		if pin == nil {
			return errors.Errorf("periph input pin GPIO%d not found in registry", inPin)
		}
		err = pin.In(pio.pullResistor(), gpio.NoEdge)
		if err != nil {
			return errors.Wrapf(err, "failed to set GPIO%d as input", inPin)
		}
		pio.inputs = append(pio.inputs, PeriphInput{pin: inPin, invert: pio.InvertInputs, gpio: pin})
	}

	for _, outPin := range outputs {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", outPin))
		if pin == nil {
			return errors.Errorf("periph output pin GPIO%d not found in registry", outPin)
		}
		err = pin.Out(gpio.Level(pio.InvertOutputs))
		if err != nil {
			return errors.Wrapf(err, "failed to set GPIO%d as output", outPin)
		}
		pio.outputs = append(pio.outputs, PeriphOutput{pin: outPin, invert: pio.InvertOutputs, gpio: pin})
	}

	pio.isReady = true
	return nil
}

func (pio *PeriphIO) String() string {
	return periphDriverName
}

func (pio *PeriphIO) IsReady() bool {
	return pio.isReady
}

func (pio *PeriphIO) Close() error {
	pio.isReady = false
	for _, output := range pio.outputs {
		output.Set(false)
	}
	return nil
}

func (pio *PeriphIO) GetInput(pin uint16) (input DigitalInput, err error) {
	for idx := range pio.inputs {
		if pio.inputs[idx].pin == pin {
			input = &pio.inputs[idx]
			return
		}
	}

	err = fmt.Errorf("PeriphIO Input (pin: %d) not found", pin)
	return
}

func (pio *PeriphIO) GetOutput(pin uint16) (output DigitalOutput, err error) {
	for idx := range pio.outputs {
		if pio.outputs[idx].pin == pin {
			output = &pio.outputs[idx]
			return
		}
	}

	err = fmt.Errorf("PeriphIO Output (pin: %d) not found", pin)
	return
}

func (pio *PeriphIO) GetAllIo() (inputs []uint16, outputs []uint16) {
	for _, input := range pio.inputs {
		inputs = append(inputs, input.pin)
	}

	for _, output := range pio.outputs {
		outputs = append(outputs, output.pin)
	}

	return
}
