package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	opt := NewHerculesOpt()
	if opt.Monitor.UpdateIntervalMS != DefaultUpdateIntervalMS {
		t.Errorf("update interval = %d", opt.Monitor.UpdateIntervalMS)
	}
	if !opt.Monitor.ShowCPU || !opt.Monitor.ShowMemory || !opt.Monitor.ShowDisk || !opt.Monitor.ShowNetwork {
		t.Error("core sections not shown by default")
	}
	if opt.Monitor.ShowProcesses {
		t.Error("processes shown by default")
	}
	if opt.Sensor.Enabled {
		t.Error("sensor enabled by default")
	}
	if opt.Sensor.UpdateIntervalMS != DefaultSensorIntervalMS {
		t.Errorf("sensor interval = %d", opt.Sensor.UpdateIntervalMS)
	}
	if !opt.Sensor.UseCelsius {
		t.Error("celsius not default")
	}
	if opt.API.Enabled {
		t.Error("API enabled by default")
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"true", "1", "yes", "on", "enable", "enabled", "TRUE", "Yes"}
	for _, v := range truthy {
		got, err := ParseBool(v)
		if err != nil || !got {
			t.Errorf("ParseBool(%q) = %v, %v", v, got, err)
		}
	}
	falsy := []string{"false", "0", "no", "off", "disable", "disabled"}
	for _, v := range falsy {
		got, err := ParseBool(v)
		if err != nil || got {
			t.Errorf("ParseBool(%q) = %v, %v", v, got, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Error("ParseBool accepted garbage")
	}
}

func TestSetProperty(t *testing.T) {
	opt := NewHerculesOpt()

	if err := SetProperty(&opt, "monitor.update_interval_ms", "500"); err != nil {
		t.Fatal(err)
	}
	if opt.Monitor.UpdateIntervalMS != 500 {
		t.Errorf("interval = %d", opt.Monitor.UpdateIntervalMS)
	}

	if err := SetProperty(&opt, "sensor.enabled", "yes"); err != nil {
		t.Fatal(err)
	}
	if !opt.Sensor.Enabled {
		t.Error("sensor not enabled")
	}

	if err := SetProperty(&opt, "monitor.max_processes", "15"); err != nil {
		t.Fatal(err)
	}
	if opt.Monitor.MaxProcesses != 15 {
		t.Errorf("max processes = %d", opt.Monitor.MaxProcesses)
	}

	if err := SetProperty(&opt, "sensor.serial_port", "/dev/ttyUSB0"); err != nil {
		t.Fatal(err)
	}
	if opt.Sensor.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("serial port = %q", opt.Sensor.SerialPort)
	}
}

func TestSetPropertyRejectsInvalid(t *testing.T) {
	opt := NewHerculesOpt()
	cases := [][2]string{
		{"monitor.update_interval_ms", "fast"},
		{"sensor.update_interval_ms", "0"},
		{"api.port", "99999"},
		{"monitor.show_cpu", "maybe"},
		{"no.such.property", "1"},
	}
	for _, c := range cases {
		if err := SetProperty(&opt, c[0], c[1]); err == nil {
			t.Errorf("SetProperty(%q, %q) accepted invalid input", c[0], c[1])
		}
	}
}
