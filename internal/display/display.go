// Package display renders snapshots and sensor readings as terminal text.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
)

const barWidth = 10

// Options selects which sections Render emits.
type Options struct {
	ShowCPU       bool
	ShowMemory    bool
	ShowDisk      bool
	ShowNetwork   bool
	ShowProcesses bool
	ShowSensors   bool
	UseCelsius    bool
}

// ClearScreen resets the terminal for the continuous refresh loop.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\x1B[2J\x1B[1;1H")
}

// Render writes the full multi-section report.
func Render(w io.Writer, snap monitor.Snapshot, reading sensor.Reading, connected bool, opt Options) {
	if opt.ShowCPU {
		renderCPU(w, snap.CPU)
	}
	if opt.ShowMemory {
		renderMemory(w, snap.Memory)
	}
	if opt.ShowDisk {
		renderDisks(w, snap.Disks)
	}
	if opt.ShowNetwork {
		renderNetwork(w, snap.Network)
	}
	if opt.ShowProcesses {
		renderProcesses(w, snap.Processes)
	}
	if opt.ShowSensors {
		renderSensor(w, reading, connected, opt.UseCelsius)
	}
}

func renderCPU(w io.Writer, cpu monitor.CPUStats) {
	fmt.Fprintln(w, "\nCPU USAGE")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "Global CPU Usage: %.1f%%\n", cpu.GlobalPercent)
	for i, pct := range cpu.PerCore {
		fmt.Fprintf(w, "  Core #%d: %.1f%% %s\n", i, pct, Bar(pct, barWidth))
	}
	if cpu.FreqMHz > 0 {
		fmt.Fprintf(w, "Frequency: %.0f MHz\n", cpu.FreqMHz)
	}
}

func renderMemory(w io.Writer, m monitor.MemoryStats) {
	fmt.Fprintln(w, "\nMEMORY USAGE")
	fmt.Fprintln(w, "------------")
	fmt.Fprintf(w, "Memory: %.2f/%.2f GB (%.1f%% used) %s\n",
		monitor.GB(m.Used), monitor.GB(m.Total), m.UsedPercent, Bar(m.UsedPercent, barWidth))
	fmt.Fprintf(w, "Swap:   %.2f/%.2f GB (%.1f%% used)\n",
		monitor.GB(m.SwapUsed), monitor.GB(m.SwapTotal), m.SwapPercent)
}

func renderDisks(w io.Writer, disks []monitor.DiskStats) {
	fmt.Fprintln(w, "\nDISK USAGE")
	fmt.Fprintln(w, "----------")
	for _, d := range disks {
		fmt.Fprintf(w, "  %s: %.2f/%.2f GB (%.1f%% used) - Mount: %s\n",
			d.Device, monitor.GB(d.Used), monitor.GB(d.Total), d.UsedPercent, d.Mount)
	}
}

func renderNetwork(w io.Writer, n monitor.NetworkStats) {
	fmt.Fprintln(w, "\nNETWORK USAGE")
	fmt.Fprintln(w, "-------------")
	for _, iface := range n.Interfaces {
		fmt.Fprintf(w, "  %s:\n", iface.Name)
		fmt.Fprintf(w, "    Total Received: %d bytes\n", iface.BytesRecv)
		fmt.Fprintf(w, "    Total Transmitted: %d bytes\n", iface.BytesSent)
		fmt.Fprintf(w, "    Receive Rate: %.2f KB/s\n", iface.RecvRate/1024.0)
		fmt.Fprintf(w, "    Transmit Rate: %.2f KB/s\n", iface.SendRate/1024.0)
	}
}

func renderProcesses(w io.Writer, procs []monitor.ProcessInfo) {
	fmt.Fprintln(w, "\nTOP PROCESSES")
	fmt.Fprintln(w, "-------------")
	fmt.Fprintf(w, "%-6s %-20s %-10s %-10s %-10s\n", "PID", "NAME", "CPU%", "MEM MB", "STATUS")
	for _, p := range procs {
		name := p.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(w, "%-6d %-20s %-10.1f %-10.1f %-10s\n",
			p.PID, name, p.CPUPercent, p.MemoryMB, p.Status)
	}
}

func renderSensor(w io.Writer, r sensor.Reading, connected bool, useCelsius bool) {
	fmt.Fprintln(w, "\n=== Gyroscope & Accelerometer Data ===")
	if !connected || !r.HasMotion() {
		fmt.Fprintln(w, "No sensor data available")
		fmt.Fprintln(w, "Check USB connection or run with --sensors")
		return
	}
	fmt.Fprintf(w, "Acceleration (m/s²): X: %.2f, Y: %.2f, Z: %.2f\n",
		r.Accel[0], r.Accel[1], r.Accel[2])
	fmt.Fprintf(w, "Gyroscope (deg/s):   X: %.2f, Y: %.2f, Z: %.2f\n",
		r.Gyro[0], r.Gyro[1], r.Gyro[2])
	if r.HasOrientation() {
		fmt.Fprintf(w, "Orientation (deg):   Roll: %.2f, Pitch: %.2f, Yaw: %.2f\n",
			r.Orientation[0], r.Orientation[1], r.Orientation[2])
	}
	if r.Temperature != 0 {
		fmt.Fprintf(w, "Temperature:         %s\n", FormatTemperature(r.Temperature, useCelsius))
	}
	fmt.Fprintf(w, "Current orientation: %s\n", OrientationGlyph(r))
}

// RenderCompact writes the condensed one-screen summary.
func RenderCompact(w io.Writer, snap monitor.Snapshot, reading sensor.Reading, connected bool, opt Options) {
	fmt.Fprintln(w, "+---------------------------------------------+")
	fmt.Fprintf(w, "| HERCULES  %s@%s (up: %s)\n", snap.Host.OS, snap.Host.Hostname, FormatUptime(snap.Host.UptimeSeconds))
	fmt.Fprintf(w, "| Kernel: %s\n", snap.Host.KernelVersion)
	if opt.ShowSensors {
		state := "NO DATA"
		if connected && reading.HasMotion() {
			state = "ACTIVE"
		}
		fmt.Fprintf(w, "| SENSORS ENABLED [%s]\n", state)
	}
	fmt.Fprintln(w, "+---------------------------------------------+")
	fmt.Fprintf(w, "CPU: %d cores, %.1f%% %s\n", len(snap.CPU.PerCore), snap.CPU.GlobalPercent, Bar(snap.CPU.GlobalPercent, barWidth))
	fmt.Fprintf(w, "RAM: %.1f/%.1f GB, %.1f%% %s\n",
		monitor.GB(snap.Memory.Used), monitor.GB(snap.Memory.Total), snap.Memory.UsedPercent, Bar(snap.Memory.UsedPercent, barWidth))
	fmt.Fprintf(w, "NET: down %.1f KB/s, up %.1f KB/s\n",
		snap.Network.TotalRecvRate/1024.0, snap.Network.TotalSendRate/1024.0)

	for i, pct := range snap.CPU.PerCore {
		fmt.Fprintf(w, "Core %2d: %5.1f%% %s", i, pct, Bar(pct, 12))
		if i%2 == 1 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, "   ")
		}
	}
	if len(snap.CPU.PerCore)%2 != 0 {
		fmt.Fprintln(w)
	}

	if opt.ShowSensors {
		fmt.Fprintln(w, "+---------------------------------------------+")
		if connected && reading.HasMotion() {
			fmt.Fprintf(w, "Accel: X:%6.2f Y:%6.2f Z:%6.2f m/s²\n",
				reading.Accel[0], reading.Accel[1], reading.Accel[2])
			fmt.Fprintf(w, "Gyro:  X:%6.1f Y:%6.1f Z:%6.1f °/s\n",
				reading.Gyro[0], reading.Gyro[1], reading.Gyro[2])
			if reading.HasOrientation() {
				fmt.Fprintf(w, "Orient: R:%5.1f P:%5.1f Y:%5.1f °\n",
					reading.Orientation[0], reading.Orientation[1], reading.Orientation[2])
			}
			if reading.Temperature != 0 {
				fmt.Fprintf(w, "Temp:  %s\n", FormatTemperature(reading.Temperature, opt.UseCelsius))
			}
		} else {
			fmt.Fprintln(w, "No sensor data available")
		}
		fmt.Fprintln(w, "+---------------------------------------------+")
	}
}

// Bar renders a usage percentage as a fixed-width block bar.
func Bar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent/100.0*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// FormatTemperature applies the unit preference.
func FormatTemperature(celsius float32, useCelsius bool) string {
	if useCelsius {
		return fmt.Sprintf("%.1f°C", celsius)
	}
	return fmt.Sprintf("%.1f°F", celsius*9/5+32)
}

// FormatUptime condenses seconds into the largest two units.
func FormatUptime(seconds uint64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}

// OrientationGlyph maps roll/pitch to a coarse direction marker.
func OrientationGlyph(r sensor.Reading) string {
	const threshold = 17.0 // degrees, roughly 0.3 rad
	roll, pitch := r.Orientation[0], r.Orientation[1]
	switch {
	case pitch > threshold:
		return "tilted forward"
	case pitch < -threshold:
		return "tilted backward"
	case roll > threshold:
		return "tilted right"
	case roll < -threshold:
		return "tilted left"
	default:
		return "flat"
	}
}
