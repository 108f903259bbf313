// Package dashboard runs the live termui view.
package dashboard

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	log "github.com/sirupsen/logrus"

	"github.com/chrrivee/HerculesPi/internal/display"
	"github.com/chrrivee/HerculesPi/internal/monitor"
	"github.com/chrrivee/HerculesPi/internal/sensor"
)

var sensorTableHeader = [][]string{{"Channel", "X / Roll", "Y / Pitch", "Z / Yaw"}}

type Dashboard struct {
	sampler    *monitor.Sampler
	manager    *sensor.Manager
	interval   time.Duration
	useCelsius bool

	cpuGauge  *widgets.Gauge
	memGauge  *widgets.Gauge
	hostPar   *widgets.Paragraph
	netPar    *widgets.Paragraph
	sensorTab *widgets.Table
}

func New(sampler *monitor.Sampler, manager *sensor.Manager, interval time.Duration, useCelsius bool) *Dashboard {
	if interval <= 0 {
		interval = time.Second
	}
	return &Dashboard{
		sampler:    sampler,
		manager:    manager,
		interval:   interval,
		useCelsius: useCelsius,
	}
}

func (d *Dashboard) build() {
	d.hostPar = widgets.NewParagraph()
	d.hostPar.Title = "Host"
	d.hostPar.SetRect(0, 0, 60, 5)

	d.cpuGauge = widgets.NewGauge()
	d.cpuGauge.Title = "CPU"
	d.cpuGauge.SetRect(0, 5, 60, 8)
	d.cpuGauge.BarColor = ui.ColorGreen

	d.memGauge = widgets.NewGauge()
	d.memGauge.Title = "Memory"
	d.memGauge.SetRect(0, 8, 60, 11)
	d.memGauge.BarColor = ui.ColorCyan

	d.netPar = widgets.NewParagraph()
	d.netPar.Title = "Network"
	d.netPar.SetRect(0, 11, 60, 14)

	d.sensorTab = widgets.NewTable()
	d.sensorTab.Title = "Sensor"
	d.sensorTab.Rows = sensorTableHeader
	d.sensorTab.ColumnWidths = []int{14, 14, 14, 14}
	d.sensorTab.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.sensorTab.TextAlignment = ui.AlignRight
	d.sensorTab.SetRect(0, 14, 60, 22)
}

func (d *Dashboard) refresh() {
	snap := d.sampler.Snapshot(0)

	d.hostPar.Text = fmt.Sprintf("%s (%s)\nKernel: %s\nUptime: %s",
		snap.Host.Hostname, snap.Host.OS, snap.Host.KernelVersion,
		display.FormatUptime(snap.Host.UptimeSeconds))

	d.cpuGauge.Percent = clampPercent(snap.CPU.GlobalPercent)
	d.cpuGauge.Label = fmt.Sprintf("%.1f%% over %d cores", snap.CPU.GlobalPercent, len(snap.CPU.PerCore))
	d.cpuGauge.BarColor = loadColor(snap.CPU.GlobalPercent)

	d.memGauge.Percent = clampPercent(snap.Memory.UsedPercent)
	d.memGauge.Label = fmt.Sprintf("%.1f/%.1f GB", monitor.GB(snap.Memory.Used), monitor.GB(snap.Memory.Total))

	d.netPar.Text = fmt.Sprintf("down %.1f KB/s  up %.1f KB/s",
		snap.Network.TotalRecvRate/1024.0, snap.Network.TotalSendRate/1024.0)

	d.sensorTab.Rows = d.sensorRows()

	ui.Render(d.hostPar, d.cpuGauge, d.memGauge, d.netPar, d.sensorTab)
}

func (d *Dashboard) sensorRows() [][]string {
	rows := make([][]string, 0, 5)
	rows = append(rows, sensorTableHeader[0])
	if !d.manager.Running() {
		rows = append(rows, []string{"no data", "-", "-", "-"})
		return rows
	}
	r := d.manager.Latest()
	rows = append(rows,
		[]string{"Accel m/s²", f1(r.Accel[0]), f1(r.Accel[1]), f1(r.Accel[2])},
		[]string{"Gyro °/s", f1(r.Gyro[0]), f1(r.Gyro[1]), f1(r.Gyro[2])},
		[]string{"Orient °", f1(r.Orientation[0]), f1(r.Orientation[1]), f1(r.Orientation[2])},
		[]string{"Temp", display.FormatTemperature(r.Temperature, d.useCelsius), "", ""},
	)
	return rows
}

// Run blocks until q or Ctrl-C.
func (d *Dashboard) Run() error {
	if err := ui.Init(); err != nil {
		log.Errorf("failed to initialize termui: %v", err)
		return err
	}
	defer ui.Close()

	d.build()
	d.refresh()

	uiEvents := ui.PollEvents()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case <-ticker.C:
			d.refresh()
		}
	}
}

func f1(v float32) string {
	return fmt.Sprintf("%.1f", v)
}

func clampPercent(v float64) int {
	p := int(v + 0.5)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func loadColor(percent float64) ui.Color {
	switch {
	case percent < 60:
		return ui.ColorGreen
	case percent < 85:
		return ui.ColorYellow
	default:
		return ui.ColorRed
	}
}
