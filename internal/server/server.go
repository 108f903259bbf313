package server

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrrivee/HerculesPi/internal/api"
	"github.com/chrrivee/HerculesPi/internal/config"
	"github.com/chrrivee/HerculesPi/internal/dashboard"
	"github.com/chrrivee/HerculesPi/internal/display"
	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
	"github.com/chrrivee/HerculesPi/pkg/version"
)

type mainApp struct {
	name string
	cmd  *cobra.Command
	args []string
	opt  *config.HerculesOpt

	sampler *monitor.Sampler
	manager *sensor.Manager

	lastReading sensor.Reading
}

type MainApp interface {
	Run()
	RunDashboard() error
	PrepareRun() MainApp
	GetOpt() *config.HerculesOpt
	SetOpt(*config.HerculesOpt)
	ProbeSensor() error
}

func NewMainApp(cmd *cobra.Command, args []string) MainApp {
	return &mainApp{
		cmd:  cmd,
		args: args,
	}
}

func (a *mainApp) GetOpt() *config.HerculesOpt { return a.opt }

func (a *mainApp) SetOpt(opt *config.HerculesOpt) { a.opt = opt }

func (a *mainApp) PrepareRun() MainApp {
	desc := config.NewHerculesDesc()
	err := desc.Parse(a.cmd)
	if err != nil {
		log.Errorln(err)
		os.Exit(1)
		return nil
	}
	desc.PostParse()
	a.opt = &desc.Opt
	a.name = config.DefaultAppName
	a.sampler = monitor.NewSampler()
	return a
}

func (a *mainApp) sensorConfig() sensor.Config {
	interval := time.Duration(a.opt.Sensor.UpdateIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = sensor.DefaultPollIntervalMS * time.Millisecond
	}
	return sensor.Config{
		Enabled:      a.opt.Sensor.Enabled,
		PollInterval: interval,
		UseCelsius:   a.opt.Sensor.UseCelsius,
		SerialPort:   a.opt.Sensor.SerialPort,
		SerialBaud:   a.opt.Sensor.SerialBaud,
	}
}

// ProbeSensor lists candidate devices on both the HID and serial buses.
func (a *mainApp) ProbeSensor() error {
	log.Infoln("probing HID devices...")
	host, err := sensor.NewHIDHost()
	if err != nil {
		log.Errorln(err)
	} else {
		lines, err := sensor.ProbeDevices(host)
		if err != nil {
			log.Warnln(err)
		}
		for _, line := range lines {
			fmt.Printf("- %s\n", line)
		}
	}

	log.Infoln("probing serial ports...")
	ports, err := sensor.ProbeSerialPorts()
	if err != nil {
		log.Warnln(err)
		return nil
	}
	log.Infof("found %d responsive serial ports:", len(ports))
	for _, p := range ports {
		fmt.Printf("- %s\n", p)
	}
	return nil
}

func (a *mainApp) displayOptions() display.Options {
	return display.Options{
		ShowCPU:       a.opt.Monitor.ShowCPU,
		ShowMemory:    a.opt.Monitor.ShowMemory,
		ShowDisk:      a.opt.Monitor.ShowDisk,
		ShowNetwork:   a.opt.Monitor.ShowNetwork,
		ShowProcesses: a.opt.Monitor.ShowProcesses,
		ShowSensors:   a.opt.Sensor.Enabled,
		UseCelsius:    a.opt.Sensor.UseCelsius,
	}
}

// drainSensor applies the newest channel updates to the cached reading.
// Errors are logged and skipped, the previous reading stays.
func (a *mainApp) drainSensor() {
	for {
		u, ok := a.manager.TryReceive()
		if !ok {
			return
		}
		if u.Err != nil {
			log.Debugln("sensor error:", u.Err)
			continue
		}
		a.lastReading = u.Reading
	}
}

// Run drives the text display loop: one shot, or clear-and-refresh forever.
func (a *mainApp) Run() {
	log.Infoln("version:", version.GitVersion)
	log.Debugln("monitor:", a.opt.Monitor)
	log.Debugln("sensor:", a.opt.Sensor)
	log.Debugln("api:", a.opt.API)

	a.manager = sensor.Initialize(a.sensorConfig())
	defer a.manager.Stop()

	var apiServer *api.Server
	if a.opt.API.Enabled {
		apiServer = api.NewServer(a.opt.API, a.manager)
		go func() {
			if err := apiServer.Serve(); err != nil {
				log.Errorln("HTTP API failed:", err)
			}
		}()
	}

	interval := time.Duration(a.opt.Monitor.UpdateIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = config.DefaultUpdateIntervalMS * time.Millisecond
	}
	opts := a.displayOptions()

	maxProcs := 0
	if a.opt.Monitor.ShowProcesses {
		maxProcs = a.opt.Monitor.MaxProcesses
	}

	for {
		snap := a.sampler.Snapshot(maxProcs)
		if apiServer != nil {
			apiServer.Publish(snap)
		}
		a.drainSensor()

		if a.opt.Monitor.Continuous {
			display.ClearScreen(os.Stdout)
		}
		fmt.Printf("HERCULES %s\n", time.Now().Format("2006-01-02 15:04:05"))
		fmt.Println("==================================")
		if a.opt.Monitor.Compact {
			display.RenderCompact(os.Stdout, snap, a.lastReading, a.manager.Running(), opts)
		} else {
			display.Render(os.Stdout, snap, a.lastReading, a.manager.Running(), opts)
		}

		if !a.opt.Monitor.Continuous {
			return
		}
		time.Sleep(interval)
	}
}

// RunDashboard starts the sensor manager and hands control to the termui
// view until the user quits.
func (a *mainApp) RunDashboard() error {
	a.manager = sensor.Initialize(a.sensorConfig())
	defer a.manager.Stop()

	interval := time.Duration(a.opt.Monitor.UpdateIntervalMS) * time.Millisecond
	d := dashboard.New(a.sampler, a.manager, interval, a.opt.Sensor.UseCelsius)
	return d.Run()
}
