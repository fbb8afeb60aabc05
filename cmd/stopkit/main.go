package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"

	"github.com/hubertat/stopkit"
	"github.com/hubertat/stopkit/drivers"
	"github.com/hubertat/stopkit/hid"
)

// BCM pin numbers of the safety panel wiring.
const estopPin = 17
const cylinderPin = 27
const startLedPin = 23
const readyLedPin = 24

// Feature switches of this deployment. The key cylinder is not populated
// on every panel revision, hence disabled by default.
const disableKeyCylinder = true
const disableLeds = false
const flashingLedsOnly = false

var (
	Version string
	Build   string

	flagInstall = flag.Bool("install", false, "Install service in os")
	flagDebug   = flag.Bool("debug", false, "log io and loop state every iteration")

	stopkitService = servicemaker.ServiceMaker{
		User:               "stopkit",
		UserGroups:         []string{"gpio"},
		ServicePath:        "/etc/systemd/system/stopkit.service",
		ServiceDescription: "StopKit service: e-stop safety panel USB keyboard controller. github.com/hubertat/stopkit",
		ExecDir:            "/srv/stopkit",
		ExecName:           "stopkit",
	}
)

func main() {
	log.Printf("stopkit %s started", Version)
	flag.Parse()

	if *flagInstall {
		err := stopkitService.InstallService()
		if err != nil {
			log.Fatal("service install failed", "err", err)
		}
		log.Print("service installed!")
		return
	}

	if *flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		signal.Stop(c)
		cancel()
	}()

	keyboard, err := hid.OpenGadget(hid.DefaultGadgetPath)
	if err != nil {
		log.Fatal("failed to open hid gadget keyboard", "err", err)
	}
	defer keyboard.Close()

	sk := &stopkit.StopKit{
		Name:     "stopkit",
		Button:   &stopkit.SafetyInput{Name: "e-stop", DriverName: "gpio", InPin: estopPin},
		Cylinder: &stopkit.SafetyInput{Name: "cylinder", DriverName: "gpio", InPin: cylinderPin},
		StartLed: &stopkit.Indicator{Name: "start", DriverName: "gpio", OutPin: startLedPin},
		ReadyLed: &stopkit.Indicator{Name: "ready", DriverName: "gpio", OutPin: readyLedPin},

		DisableCylinder:  disableKeyCylinder,
		DisableLeds:      disableLeds,
		FlashingLedsOnly: flashingLedsOnly,

		Gpio:     &drivers.GpIO{Pull: drivers.PullDown},
		Keyboard: keyboard,
		Debug:    *flagDebug,
	}

	log.Print("will init stopkit drivers...")
	err = sk.InitDrivers(ctx)
	defer sk.Close()
	if err != nil {
		log.Fatal("driver init failed", "err", err)
	}

	log.Print("will init stopkit IOs...")
	err = sk.InitIos()
	if err != nil {
		log.Fatal("io init failed", "err", err)
	}

	sk.PrintIoStatus(os.Stdout)

	log.Print("entering control loop")
	err = sk.Run(ctx)
	if err != nil {
		log.Fatal("control loop failed", "err", err)
	}
}
