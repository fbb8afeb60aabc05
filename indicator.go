package stopkit

import (
	"fmt"
	"strings"

	"github.com/hubertat/stopkit/drivers"
	"github.com/pkg/errors"
)

// Indicator is a single panel LED on a digital output.
type Indicator struct {
	Name       string
	DriverName string
	OutPin     uint16

	output drivers.DigitalOutput
	driver drivers.IoDriver
}

func (in *Indicator) GetDriverName() string {
	return in.DriverName
}

func (in *Indicator) Init(driver drivers.IoDriver) error {
	if !strings.EqualFold(driver.String(), in.DriverName) {
		return fmt.Errorf("Init failed, mismatched or incorrect driver")
	}

	if !driver.IsReady() {
		return fmt.Errorf("Init failed, driver not ready")
	}

	var err error

	in.driver = driver
	in.output, err = driver.GetOutput(in.OutPin)
	if err != nil {
		return errors.Wrap(err, "Init failed on getting output")
	}

	return nil
}

func (in *Indicator) GetValue() (bool, error) {
	return in.output.GetState()
}

// IndicatorPanel holds the start and ready LEDs and owns the feature
// switch policy: every output request passes through Set or Toggle, so
// the control loop never special-cases DisableLeds or FlashingOnly.
type IndicatorPanel struct {
	Start *Indicator
	Ready *Indicator

	// DisableLeds forces every outcome off.
	DisableLeds bool
	// FlashingOnly suppresses steady states; only Toggle may light an
	// indicator. Overridden by DisableLeds.
	FlashingOnly bool
}

func (ip *IndicatorPanel) Init(ioDrivers map[string]drivers.IoDriver) error {
	for _, indicator := range []*Indicator{ip.Start, ip.Ready} {
		driver, found := ioDrivers[indicator.GetDriverName()]
		if !found {
			return errors.Errorf("driver %s not set up", indicator.GetDriverName())
		}
		err := indicator.Init(driver)
		if err != nil {
			return errors.Wrapf(err, "failed to init indicator %s", indicator.Name)
		}
	}

	// Both indicators light at startup unless a feature switch says off.
	startup := !(ip.DisableLeds || ip.FlashingOnly)
	err := ip.Start.output.Set(startup)
	if err != nil {
		return errors.Wrap(err, "failed to set startup state of start indicator")
	}
	err = ip.Ready.output.Set(startup)
	if err != nil {
		return errors.Wrap(err, "failed to set startup state of ready indicator")
	}

	return nil
}

func (ip *IndicatorPanel) Set(indicator *Indicator, state bool) error {
	if ip.DisableLeds || ip.FlashingOnly {
		state = false
	}

	return indicator.output.Set(state)
}

func (ip *IndicatorPanel) Toggle(indicator *Indicator) error {
	if ip.DisableLeds {
		return indicator.output.Set(false)
	}

	state, err := indicator.output.GetState()
	if err != nil {
		return errors.Wrap(err, "Toggle failed on reading output state")
	}

	return indicator.output.Set(!state)
}
