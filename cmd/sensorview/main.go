package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrrivee/HerculesPi/internal/sensor"
)

var defaultTableValue = [][]string{{"Channel", "X", "Y", "Z"}}

func getTable() *widgets.Table {
	table := widgets.NewTable()
	table.Rows = defaultTableValue
	table.ColumnWidths = []int{14, 12, 12, 12}
	table.TextStyle = ui.NewStyle(ui.ColorWhite)
	table.TextAlignment = ui.AlignRight
	table.SetRect(0, 0, 54, 12)
	return table
}

type recordedReading struct {
	Timestamp   time.Time  `json:"timestamp"`
	Accel       [3]float32 `json:"accel"`
	Gyro        [3]float32 `json:"gyro"`
	Orientation [3]float32 `json:"orientation"`
	Temperature float32    `json:"temperature"`
}

func updateValue(m *sensor.Manager, table *widgets.Table, record bool) {
	var writer *bufio.Writer
	if record {
		file, err := os.Create(fmt.Sprintf("%v.jsonl", time.Now().Format("2006-01-02T15-04-05")))
		if err != nil {
			log.Fatalf("could not create file: %v", err)
		}
		defer file.Close()
		writer = bufio.NewWriter(file)
		defer writer.Flush()
	}

	idx := 0
	for {
		u, ok := m.TryReceive()
		if !ok {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if u.Err != nil {
			log.Debugln(u.Err)
			continue
		}
		r := u.Reading
		table.Rows = [][]string{
			defaultTableValue[0],
			{"Accel m/s²", f1(r.Accel[0]), f1(r.Accel[1]), f1(r.Accel[2])},
			{"Gyro °/s", f1(r.Gyro[0]), f1(r.Gyro[1]), f1(r.Gyro[2])},
			{"Orient °", f1(r.Orientation[0]), f1(r.Orientation[1]), f1(r.Orientation[2])},
			{"Temp °C", f1(r.Temperature), "", ""},
		}

		if writer != nil {
			line, err := json.Marshal(recordedReading{
				Timestamp:   r.Timestamp,
				Accel:       r.Accel,
				Gyro:        r.Gyro,
				Orientation: r.Orientation,
				Temperature: r.Temperature,
			})
			if err != nil {
				log.Fatalf("error marshaling reading: %v", err)
			}
			if _, err := writer.Write(append(line, '\n')); err != nil {
				log.Fatalf("error writing reading: %v", err)
			}
			if idx%100 == 0 {
				if err := writer.Flush(); err != nil {
					log.Fatalf("error flushing buffer: %v", err)
				}
			}
		}
		idx++
		ui.Render(table)
	}
}

func f1(v float32) string {
	return fmt.Sprintf("%.1f", v)
}

func _main(cmd *cobra.Command, args []string) {
	log.Info("starting")
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetLevel(log.DebugLevel)
	}
	serialPort, _ := cmd.Flags().GetString("serial")
	baud, _ := cmd.Flags().GetInt("baud")
	intervalMS, _ := cmd.Flags().GetUint64("interval")
	record, _ := cmd.Flags().GetBool("record")

	m := sensor.NewManager(sensor.Config{
		Enabled:      true,
		PollInterval: time.Duration(intervalMS) * time.Millisecond,
		UseCelsius:   true,
		SerialPort:   serialPort,
		SerialBaud:   baud,
	})
	if err := m.Start(); err != nil {
		log.Fatalf("could not start sensor: %v", err)
	}
	defer m.Stop()

	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	t := getTable()
	go updateValue(m, t, record)
	uiEvents := ui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "q", "<C-c>":
			return
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "sensorview",
	Short: "sensorview",
	Long:  "live table of motion-sensor readings, optionally recorded to jsonl",
	Run: func(cmd *cobra.Command, args []string) {
		_main(cmd, args)
	},
}

func main() {
	rootCmd.Flags().String("serial", "", "read from this serial port instead of HID discovery")
	rootCmd.Flags().Int("baud", sensor.DefaultSerialBaud, "serial baud rate")
	rootCmd.Flags().Uint64("interval", sensor.DefaultPollIntervalMS, "poll interval in milliseconds")
	rootCmd.Flags().Bool("record", false, "record readings to a jsonl file")
	rootCmd.Flags().Bool("debug", false, "toggle debug logging")

	err := rootCmd.Execute()
	if err != nil {
		return
	}
}
