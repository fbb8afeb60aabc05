package stopkit

import (
	"context"
	"testing"

	"github.com/hubertat/stopkit/drivers"
)

func newTestPanel(t testing.TB, disableLeds, flashingOnly bool) (*IndicatorPanel, *drivers.MockIoDriver) {
	t.Helper()

	md := &drivers.MockIoDriver{}
	err := md.Setup(context.Background(), []uint16{}, []uint16{testStartPin, testReadyPin})
	if err != nil {
		t.Fatalf("mock driver Setup returned err: %v", err)
	}

	panel := &IndicatorPanel{
		Start:        &Indicator{Name: "start", DriverName: "mock_driver", OutPin: testStartPin},
		Ready:        &Indicator{Name: "ready", DriverName: "mock_driver", OutPin: testReadyPin},
		DisableLeds:  disableLeds,
		FlashingOnly: flashingOnly,
	}
	err = panel.Init(map[string]drivers.IoDriver{md.String(): md})
	if err != nil {
		t.Fatalf("panel Init returned err: %v", err)
	}

	return panel, md
}

func panelLedState(t testing.TB, md *drivers.MockIoDriver, pin uint16) bool {
	t.Helper()

	output, err := md.GetOutput(pin)
	if err != nil {
		t.Fatalf("failed to get mock output %d: %v", pin, err)
	}
	state, _ := output.GetState()
	return state
}

func TestPanelStartupStates(t *testing.T) {
	t.Run("default lights both", func(t *testing.T) {
		_, md := newTestPanel(t, false, false)
		assertBool(t, panelLedState(t, md, testStartPin), true)
		assertBool(t, panelLedState(t, md, testReadyPin), true)
	})

	t.Run("disabled leds start off", func(t *testing.T) {
		_, md := newTestPanel(t, true, false)
		assertBool(t, panelLedState(t, md, testStartPin), false)
		assertBool(t, panelLedState(t, md, testReadyPin), false)
	})

	t.Run("flashing only starts off", func(t *testing.T) {
		_, md := newTestPanel(t, false, true)
		assertBool(t, panelLedState(t, md, testStartPin), false)
		assertBool(t, panelLedState(t, md, testReadyPin), false)
	})
}

func TestPanelSet(t *testing.T) {
	panel, md := newTestPanel(t, false, false)

	panel.Set(panel.Start, false)
	assertBool(t, panelLedState(t, md, testStartPin), false)

	panel.Set(panel.Start, true)
	assertBool(t, panelLedState(t, md, testStartPin), true)
}

func TestPanelSetWithDisabledLeds(t *testing.T) {
	panel, md := newTestPanel(t, true, false)

	panel.Set(panel.Ready, true)
	assertBool(t, panelLedState(t, md, testReadyPin), false)
}

func TestPanelSetWithFlashingOnly(t *testing.T) {
	panel, md := newTestPanel(t, false, true)

	// steady states are suppressed
	panel.Set(panel.Ready, true)
	assertBool(t, panelLedState(t, md, testReadyPin), false)

	// but Toggle may light the indicator
	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), true)

	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), false)
}

func TestPanelToggle(t *testing.T) {
	panel, md := newTestPanel(t, false, false)

	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), false)

	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), true)
}

func TestPanelToggleWithDisabledLeds(t *testing.T) {
	panel, md := newTestPanel(t, true, false)

	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), false)

	panel.Toggle(panel.Ready)
	assertBool(t, panelLedState(t, md, testReadyPin), false)
}

func TestIndicatorInitWrongDriver(t *testing.T) {
	md := &drivers.MockIoDriver{}
	md.Setup(context.Background(), []uint16{}, []uint16{testStartPin})

	indicator := &Indicator{Name: "start", DriverName: "gpio", OutPin: testStartPin}
	if indicator.Init(md) == nil {
		t.Error("expected error from Init with mismatched driver")
	}

	notReady := &drivers.MockIoDriver{}
	indicator = &Indicator{Name: "start", DriverName: "mock_driver", OutPin: testStartPin}
	if indicator.Init(notReady) == nil {
		t.Error("expected error from Init with driver not ready")
	}
}

func assertBool(t testing.TB, got, want bool) {
	t.Helper()

	if got != want {
		t.Errorf("got %v want %v", got, want)
	}
}
