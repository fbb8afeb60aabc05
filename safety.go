package stopkit

import (
	"fmt"
	"strings"

	"github.com/hubertat/stopkit/drivers"
	"github.com/pkg/errors"
)

// SafetyInput is one contact of the safety circuit: the e-stop mushroom
// button or the lock cylinder switch. Both are wired normally-closed to
// the supply rail, so a high reading means the safe path is intact.
type SafetyInput struct {
	Name       string
	DriverName string
	InPin      uint16

	input  drivers.DigitalInput
	driver drivers.IoDriver
}

func (si *SafetyInput) GetDriverName() string {
	return si.DriverName
}

func (si *SafetyInput) Init(driver drivers.IoDriver) error {
	if !strings.EqualFold(driver.String(), si.DriverName) {
		return fmt.Errorf("Init failed, mismatched or incorrect driver")
	}

	if !driver.IsReady() {
		return fmt.Errorf("Init failed, driver not ready")
	}

	var err error

	si.driver = driver
	si.input, err = driver.GetInput(si.InPin)
	if err != nil {
		return errors.Wrap(err, "Init failed on getting input")
	}

	return nil
}

// Engaged reports whether the contact's safe path is closed.
func (si *SafetyInput) Engaged() (bool, error) {
	return si.input.GetState()
}

// SafetyCircuit combines the two safety contacts into the single
// triggered signal the control loop runs on.
type SafetyCircuit struct {
	Button   *SafetyInput
	Cylinder *SafetyInput

	DisableCylinder bool
}

// Triggered returns true unless the button reads safe and the cylinder
// reads safe (or the cylinder check is disabled). It has no side effects
// and is read once per loop iteration.
func (sc *SafetyCircuit) Triggered() (bool, error) {
	buttonSafe, err := sc.Button.Engaged()
	if err != nil {
		return false, errors.Wrap(err, "failed to read e-stop button")
	}

	cylinderSafe := true
	if !sc.DisableCylinder {
		cylinderSafe, err = sc.Cylinder.Engaged()
		if err != nil {
			return false, errors.Wrap(err, "failed to read lock cylinder")
		}
	}

	return !(buttonSafe && cylinderSafe), nil
}
