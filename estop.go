package stopkit

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/stopkit/hid"
)

const DefaultKey = hid.KeyEscape

const defaultRepeatInterval = 5 * time.Second
const defaultDwellTime = 250 * time.Millisecond
const defaultFlashPeriodHalf = 250 * time.Millisecond
const defaultPollInterval = 10 * time.Millisecond

// EStop is the control loop: it polls the safety circuit, drives the
// indicator panel and emits the dwell-timed synthetic key press while the
// machine is triggered. All state below the configuration fields belongs
// to the loop alone; nothing else reads or writes it.
type EStop struct {
	Safety   *SafetyCircuit
	Panel    *IndicatorPanel
	Keyboard hid.Keyboard

	Key hid.Keycode
	// DwellTime must stay below RepeatInterval, behavior is undefined
	// otherwise.
	RepeatInterval  time.Duration
	DwellTime       time.Duration
	FlashPeriodHalf time.Duration
	// PollInterval is the loop cadence and the input debounce window.
	PollInterval time.Duration

	Debug  bool
	Logger *log.Logger

	active  bool
	keyDown bool

	// zero time.Time is the far-past sentinel: elapsed-since checks
	// against it exceed any configured threshold
	timeActivated    time.Time
	timeLastFlashed  time.Time
	timeLastKeypress time.Time
}

func (es *EStop) Init() error {
	if es.Safety == nil {
		return errors.New("Init failed, safety circuit not set")
	}
	if es.Panel == nil {
		return errors.New("Init failed, indicator panel not set")
	}
	if es.Keyboard == nil {
		return errors.New("Init failed, keyboard not set")
	}

	if es.Key == 0 {
		es.Key = DefaultKey
	}
	if es.RepeatInterval == 0 {
		es.RepeatInterval = defaultRepeatInterval
	}
	if es.DwellTime == 0 {
		es.DwellTime = defaultDwellTime
	}
	if es.FlashPeriodHalf == 0 {
		es.FlashPeriodHalf = defaultFlashPeriodHalf
	}
	if es.PollInterval == 0 {
		es.PollInterval = defaultPollInterval
	}
	if es.Logger == nil {
		es.Logger = log.Default()
	}

	return nil
}

// Active reports whether the loop currently considers the machine triggered.
func (es *EStop) Active() bool {
	return es.active
}

// KeyHeld reports whether the synthetic key is currently down.
func (es *EStop) KeyHeld() bool {
	return es.keyDown
}

// Step runs one loop iteration against the given clock reading.
func (es *EStop) Step(now time.Time) error {
	if es.Debug {
		es.dumpIoState(now)
	}

	triggered, err := es.Safety.Triggered()
	if err != nil {
		return errors.Wrap(err, "failed to evaluate safety circuit")
	}

	if !triggered {
		if !es.active {
			return nil
		}

		es.active = false
		err = es.Panel.Set(es.Panel.Ready, true)
		if err != nil {
			return errors.Wrap(err, "failed to light ready indicator")
		}
		err = es.Panel.Set(es.Panel.Start, false)
		if err != nil {
			return errors.Wrap(err, "failed to clear start indicator")
		}

		// release unconditionally, the deactivation may land mid dwell
		return es.releaseKey()
	}

	if !es.active {
		es.active = true
		es.timeActivated = now
		// sentinel reset guarantees the next iteration presses right
		// away, even after a very recent deactivation
		es.timeLastKeypress = time.Time{}
		return nil
	}

	if es.keyDown {
		if now.Sub(es.timeLastKeypress) >= es.DwellTime {
			err = es.releaseKey()
		}
	} else {
		if now.Sub(es.timeLastKeypress) >= es.RepeatInterval {
			err = es.pressKey(now)
		}
	}
	if err != nil {
		return err
	}

	if now.Sub(es.timeLastFlashed) >= es.FlashPeriodHalf {
		err = es.Panel.Toggle(es.Panel.Ready)
		if err != nil {
			return errors.Wrap(err, "failed to toggle ready indicator")
		}
		es.timeLastFlashed = now
	}

	return nil
}

// Run polls forever at PollInterval. Iteration errors are logged and the
// loop keeps going: every failure mode here is physical and the safest
// reaction is to try again next tick.
func (es *EStop) Run(ctx context.Context) {
	ticker := time.NewTicker(es.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			err := es.Step(now)
			if err != nil {
				es.Logger.Error("e-stop loop iteration failed", "err", err)
			}
		}
	}
}

func (es *EStop) pressKey(now time.Time) error {
	err := es.Keyboard.Press(es.Key)
	if err != nil {
		return errors.Wrap(err, "failed to press key")
	}
	err = es.Panel.Set(es.Panel.Start, false)
	if err != nil {
		return errors.Wrap(err, "failed to clear start indicator")
	}

	es.keyDown = true
	es.timeLastKeypress = now
	return nil
}

func (es *EStop) releaseKey() error {
	err := es.Keyboard.ReleaseAll()
	if err != nil {
		return errors.Wrap(err, "failed to release keys")
	}

	es.keyDown = false
	return errors.Wrap(es.Panel.Set(es.Panel.Start, true), "failed to light start indicator")
}

func (es *EStop) dumpIoState(now time.Time) {
	buttonSafe, _ := es.Safety.Button.Engaged()
	cylinderSafe := true
	if !es.Safety.DisableCylinder {
		cylinderSafe, _ = es.Safety.Cylinder.Engaged()
	}
	startLit, _ := es.Panel.Start.GetValue()
	readyLit, _ := es.Panel.Ready.GetValue()

	es.Logger.Debug("io state",
		"now", now,
		"button", buttonSafe,
		"cylinder", cylinderSafe,
		"led_start", startLit,
		"led_ready", readyLit,
		"active", es.active,
		"key_down", es.keyDown,
		"activated", es.timeActivated,
		"last_flashed", es.timeLastFlashed,
		"last_keypress", es.timeLastKeypress,
	)
}
