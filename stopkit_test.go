package stopkit

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hubertat/stopkit/drivers"
	"github.com/hubertat/stopkit/hid"
)

func newTestKit(t testing.TB) (*StopKit, *hid.MockKeyboard) {
	t.Helper()

	keyboard := &hid.MockKeyboard{}
	sk := &StopKit{
		Name:       "test panel",
		Button:     &SafetyInput{Name: "e-stop", DriverName: "mock_driver", InPin: testButtonPin},
		Cylinder:   &SafetyInput{Name: "cylinder", DriverName: "mock_driver", InPin: testCylinderPin},
		StartLed:   &Indicator{Name: "start", DriverName: "mock_driver", OutPin: testStartPin},
		ReadyLed:   &Indicator{Name: "ready", DriverName: "mock_driver", OutPin: testReadyPin},
		FakeDriver: &drivers.MockIoDriver{},
		Keyboard:   keyboard,
	}

	err := sk.InitDrivers(context.Background())
	if err != nil {
		t.Fatalf("InitDrivers returned err: %v", err)
	}
	err = sk.InitIos()
	if err != nil {
		t.Fatalf("InitIos returned err: %v", err)
	}

	return sk, keyboard
}

func TestKitInitWiring(t *testing.T) {
	sk, _ := newTestKit(t)

	inputs, outputs := sk.FakeDriver.GetAllIo()
	if len(inputs) != 2 {
		t.Errorf("want 2 input pins set up, got %v", inputs)
	}
	if len(outputs) != 2 {
		t.Errorf("want 2 output pins set up, got %v", outputs)
	}

	if sk.estop == nil {
		t.Fatal("e-stop loop not built")
	}
	if sk.estop.RepeatInterval != 5*time.Second {
		t.Errorf("defaults not applied, repeat interval: %v", sk.estop.RepeatInterval)
	}
}

func TestKitInitMissingDriver(t *testing.T) {
	sk := &StopKit{
		Button:   &SafetyInput{Name: "e-stop", DriverName: "gpio", InPin: testButtonPin},
		Cylinder: &SafetyInput{Name: "cylinder", DriverName: "gpio", InPin: testCylinderPin},
		StartLed: &Indicator{Name: "start", DriverName: "gpio", OutPin: testStartPin},
		ReadyLed: &Indicator{Name: "ready", DriverName: "gpio", OutPin: testReadyPin},
	}

	if sk.InitDrivers(context.Background()) == nil {
		t.Error("expected error with no driver configured for ios")
	}
}

// the literal scenario: machine safe, operator hits the button, controller
// goes active and the first key press lands on the very next iteration
func TestKitButtonScenario(t *testing.T) {
	sk, keyboard := newTestKit(t)
	base := time.Now()

	sk.FakeDriver.SetInput(testButtonPin, true)
	sk.FakeDriver.SetInput(testCylinderPin, true)

	err := sk.estop.Step(base)
	if err != nil {
		t.Fatalf("Step returned err: %v", err)
	}
	if sk.estop.Active() {
		t.Fatal("active while both inputs safe")
	}

	sk.FakeDriver.SetInput(testButtonPin, false)
	sk.estop.Step(base.Add(10 * time.Millisecond))
	if !sk.estop.Active() {
		t.Fatal("not active after button press")
	}

	sk.estop.Step(base.Add(20 * time.Millisecond))
	if len(keyboard.Presses) != 1 {
		t.Errorf("want 1 key press, got %d", len(keyboard.Presses))
	}
}

func TestKitRunNotInitialized(t *testing.T) {
	sk := &StopKit{}
	if sk.Run(context.Background()) == nil {
		t.Error("expected error from Run before init")
	}
}

func TestKitPrintIoStatus(t *testing.T) {
	sk, _ := newTestKit(t)

	buff := &bytes.Buffer{}
	sk.PrintIoStatus(buff)

	if !strings.Contains(buff.String(), "mock_driver") {
		t.Errorf("io status dump missing driver name:\n%s", buff.String())
	}
}

func TestKitClose(t *testing.T) {
	sk, _ := newTestKit(t)

	err := sk.Close()
	if err != nil {
		t.Errorf("Close returned err: %v", err)
	}
}
