package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
)

func sampleSnapshot() monitor.Snapshot {
	return monitor.Snapshot{
		TakenAt: time.Now(),
		Host:    monitor.HostInfo{Hostname: "bench", OS: "linux", KernelVersion: "6.1.0", UptimeSeconds: 3700},
		CPU:     monitor.CPUStats{GlobalPercent: 42.5, PerCore: []float64{40, 45}},
		Memory:  monitor.MemoryStats{Total: 8 << 30, Used: 4 << 30, UsedPercent: 50},
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		width   int
		want    string
	}{
		{0, 10, "[..........]"},
		{100, 10, "[##########]"},
		{50, 10, "[#####.....]"},
		{150, 4, "[####]"},
		{-5, 4, "[....]"},
	}
	for _, tc := range tests {
		if got := Bar(tc.percent, tc.width); got != tc.want {
			t.Errorf("Bar(%v, %d) = %q, want %q", tc.percent, tc.width, got, tc.want)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	if got := FormatTemperature(100, true); got != "100.0°C" {
		t.Errorf("celsius: %q", got)
	}
	if got := FormatTemperature(100, false); got != "212.0°F" {
		t.Errorf("fahrenheit: %q", got)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds uint64
		want    string
	}{
		{30, "30s"},
		{90, "1m 30s"},
		{3700, "1h 1m"},
	}
	for _, tc := range tests {
		if got := FormatUptime(tc.seconds); got != tc.want {
			t.Errorf("FormatUptime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRenderSensorNoData(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleSnapshot(), sensor.Reading{}, false, Options{ShowSensors: true})
	if !strings.Contains(buf.String(), "No sensor data available") {
		t.Error("missing no-data indicator for disconnected sensor")
	}
}

func TestRenderSensorData(t *testing.T) {
	var buf bytes.Buffer
	r := sensor.Reading{
		Accel:       [3]float32{0, 0, 9.81},
		Gyro:        [3]float32{1, 2, 3},
		Temperature: 25,
	}
	Render(&buf, sampleSnapshot(), r, true, Options{ShowSensors: true, UseCelsius: true})
	out := buf.String()
	if !strings.Contains(out, "9.81") {
		t.Error("acceleration missing from output")
	}
	if !strings.Contains(out, "25.0°C") {
		t.Error("temperature missing from output")
	}
	if strings.Contains(out, "No sensor data") {
		t.Error("no-data indicator shown despite live reading")
	}
}

func TestRenderSections(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleSnapshot(), sensor.Reading{}, false, Options{ShowCPU: true, ShowMemory: true})
	out := buf.String()
	if !strings.Contains(out, "CPU USAGE") || !strings.Contains(out, "MEMORY USAGE") {
		t.Error("selected sections missing")
	}
	if strings.Contains(out, "DISK USAGE") {
		t.Error("disabled section rendered")
	}
}

func TestOrientationGlyph(t *testing.T) {
	tests := []struct {
		roll, pitch float32
		want        string
	}{
		{0, 0, "flat"},
		{0, 30, "tilted forward"},
		{0, -30, "tilted backward"},
		{30, 0, "tilted right"},
		{-30, 0, "tilted left"},
	}
	for _, tc := range tests {
		r := sensor.Reading{Orientation: [3]float32{tc.roll, tc.pitch, 0}}
		if got := OrientationGlyph(r); got != tc.want {
			t.Errorf("roll=%v pitch=%v: got %q, want %q", tc.roll, tc.pitch, got, tc.want)
		}
	}
}
