package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubertat/stopkit"
	"github.com/hubertat/stopkit/drivers"
	"github.com/hubertat/stopkit/hid"
)

const buttonPin = 1
const cylinderPin = 2
const startLedPin = 3
const readyLedPin = 4

func main() {
	log.Print("stopkit started")
	log.Print("mock instance for testing purposes, no hardware needed")
	log.SetLevel(log.DebugLevel)

	keyboard := &hid.MockKeyboard{}
	keyboard.MonitorTransitions(os.Stdout)

	fake := &drivers.MockIoDriver{}

	sk := &stopkit.StopKit{
		Name:     "stopkit mock",
		Button:   &stopkit.SafetyInput{Name: "fake e-stop", DriverName: "mock_driver", InPin: buttonPin},
		Cylinder: &stopkit.SafetyInput{Name: "fake cylinder", DriverName: "mock_driver", InPin: cylinderPin},
		StartLed: &stopkit.Indicator{Name: "start", DriverName: "mock_driver", OutPin: startLedPin},
		ReadyLed: &stopkit.Indicator{Name: "ready", DriverName: "mock_driver", OutPin: readyLedPin},

		RepeatInterval: 2 * time.Second,
		PollInterval:   100 * time.Millisecond,

		FakeDriver: fake,
		Keyboard:   keyboard,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Print("will init stopkit drivers...")
	err := sk.InitDrivers(ctx)
	defer sk.Close()
	if err != nil {
		log.Fatal("driver init failed", "err", err)
	}

	log.Print("will init stopkit IOs...")
	err = sk.InitIos()
	if err != nil {
		log.Fatal("io init failed", "err", err)
	}

	fake.MonitorStateChanges(os.Stdout)
	fake.SetInput(buttonPin, true)
	fake.SetInput(cylinderPin, true)

	sk.PrintIoStatus(os.Stdout)

	// pretend an operator slams and releases the e-stop every few seconds
	go func() {
		for {
			time.Sleep(5 * time.Second)
			log.Print("mock: e-stop pressed")
			fake.SetInput(buttonPin, false)

			time.Sleep(5 * time.Second)
			log.Print("mock: e-stop released")
			fake.SetInput(buttonPin, true)
		}
	}()

	log.Print("entering control loop")
	err = sk.Run(ctx)
	if err != nil {
		log.Fatal("control loop failed", "err", err)
	}
}
