package stopkit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/stopkit/drivers"
	"github.com/hubertat/stopkit/hid"
)

// StopKit wires the safety inputs, the indicator panel and the keyboard
// sink to an io driver and runs the e-stop control loop on top of them.
type StopKit struct {
	Name string

	Button   *SafetyInput
	Cylinder *SafetyInput
	StartLed *Indicator
	ReadyLed *Indicator

	DisableCylinder  bool
	DisableLeds      bool
	FlashingLedsOnly bool

	Key             hid.Keycode
	RepeatInterval  time.Duration
	DwellTime       time.Duration
	FlashPeriodHalf time.Duration
	PollInterval    time.Duration
	Debug           bool

	Gpio       *drivers.GpIO
	Mcp23017   *drivers.McpIO
	Periph     *drivers.PeriphIO
	FakeDriver *drivers.MockIoDriver

	Keyboard hid.Keyboard
	Logger   *log.Logger

	ioDrivers map[string]drivers.IoDriver
	panel     *IndicatorPanel
	estop     *EStop
}

type IO interface {
	Init(driver drivers.IoDriver) error
	GetDriverName() string
}

func (sk *StopKit) safetyInputs() (inputs []*SafetyInput) {
	inputs = append(inputs, sk.Button)
	if !sk.DisableCylinder {
		inputs = append(inputs, sk.Cylinder)
	}

	return
}

func (sk *StopKit) getInPins(driverName string) (pins []uint16) {
	for _, io := range sk.safetyInputs() {
		if strings.EqualFold(io.DriverName, driverName) {
			pins = append(pins, io.InPin)
		}
	}

	return
}

func (sk *StopKit) getOutPins(driverName string) (pins []uint16) {
	for _, io := range []*Indicator{sk.StartLed, sk.ReadyLed} {
		if strings.EqualFold(io.DriverName, driverName) {
			pins = append(pins, io.OutPin)
		}
	}

	return
}

func (sk *StopKit) getIos() []IO {
	ios := []IO{}
	for _, si := range sk.safetyInputs() {
		ios = append(ios, si)
	}
	ios = append(ios, sk.StartLed)
	ios = append(ios, sk.ReadyLed)

	return ios
}

func (sk *StopKit) InitDrivers(ctx context.Context) error {
	if sk.Button == nil || (sk.Cylinder == nil && !sk.DisableCylinder) {
		return errors.New("safety inputs not configured")
	}
	if sk.StartLed == nil || sk.ReadyLed == nil {
		return errors.New("indicators not configured")
	}

	sk.ioDrivers = make(map[string]drivers.IoDriver)

	if sk.Gpio != nil {
		sk.ioDrivers[sk.Gpio.String()] = sk.Gpio
	}

	if sk.Mcp23017 != nil {
		sk.ioDrivers[sk.Mcp23017.String()] = sk.Mcp23017
	}

	if sk.Periph != nil {
		sk.ioDrivers[sk.Periph.String()] = sk.Periph
	}

	if sk.FakeDriver != nil {
		sk.ioDrivers[sk.FakeDriver.String()] = sk.FakeDriver
	}

	for _, driver := range sk.ioDrivers {
		err := driver.Setup(ctx, sk.getInPins(driver.String()), sk.getOutPins(driver.String()))
		if err != nil {
			return errors.Wrapf(err, "failed to setup %s driver", driver)
		}
	}

	for _, io := range sk.getIos() {
		_, driverFound := sk.ioDrivers[io.GetDriverName()]
		if !driverFound {
			return errors.Errorf("driver %s not set up", io.GetDriverName())
		}
	}

	return nil
}

func (sk *StopKit) InitIos() error {
	for _, si := range sk.safetyInputs() {
		err := si.Init(sk.ioDrivers[si.GetDriverName()])
		if err != nil {
			return errors.Wrapf(err, "failed to init safety input %s", si.Name)
		}
	}

	sk.panel = &IndicatorPanel{
		Start:        sk.StartLed,
		Ready:        sk.ReadyLed,
		DisableLeds:  sk.DisableLeds,
		FlashingOnly: sk.FlashingLedsOnly,
	}
	err := sk.panel.Init(sk.ioDrivers)
	if err != nil {
		return errors.Wrap(err, "failed to init indicator panel")
	}

	sk.estop = &EStop{
		Safety: &SafetyCircuit{
			Button:          sk.Button,
			Cylinder:        sk.Cylinder,
			DisableCylinder: sk.DisableCylinder,
		},
		Panel:           sk.panel,
		Keyboard:        sk.Keyboard,
		Key:             sk.Key,
		RepeatInterval:  sk.RepeatInterval,
		DwellTime:       sk.DwellTime,
		FlashPeriodHalf: sk.FlashPeriodHalf,
		PollInterval:    sk.PollInterval,
		Debug:           sk.Debug,
		Logger:          sk.Logger,
	}

	return errors.Wrap(sk.estop.Init(), "failed to init e-stop loop")
}

// Run blocks on the control loop until the context is cancelled.
func (sk *StopKit) Run(ctx context.Context) error {
	if sk.estop == nil {
		return errors.New("not initialized, call InitDrivers and InitIos first")
	}

	sk.estop.Run(ctx)
	return nil
}

func (sk *StopKit) Close() (err error) {
	for _, driver := range sk.ioDrivers {
		if driver != nil {
			closeErr := driver.Close()
			if closeErr != nil {
				if err == nil {
					err = closeErr
				} else {
					err = errors.Wrap(err, closeErr.Error())
				}
			}
		}
	}

	return
}

func (sk *StopKit) PrintIoStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "=== active io drivers ===")
	for driverName, driver := range sk.ioDrivers {
		fmt.Fprintln(writer, "________")
		fmt.Fprintf(writer, "| driver: %s\n", driverName)
		inputs, outputs := driver.GetAllIo()
		fmt.Fprintf(writer, "| in pins: ")
		for _, inpin := range inputs {
			fmt.Fprintf(writer, "%d, ", inpin)
		}
		fmt.Fprintf(writer, "\n| out pins: ")
		for _, outpin := range outputs {
			fmt.Fprintf(writer, "%d, ", outpin)
		}
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, "--------")
	}
	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}
