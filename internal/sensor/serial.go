package sensor

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

const DefaultSerialBaud = 115200

// serialDevice exposes a USB-serial IMU through the same Device interface the
// acquisition loop uses for HID handles. The port's read timeout is fixed at
// open; the per-call timeout argument only caps shorter waits.
type serialDevice struct {
	port *serial.Port
}

// OpenSerial opens a tty-attached sensor. Devices that enumerate as a CDC
// serial port instead of hidraw (CH34x/FTDI adapter boards) go through here,
// selected by config rather than discovery.
func OpenSerial(name string, baud int) (Device, error) {
	if baud <= 0 {
		baud = DefaultSerialBaud
	}
	c := &serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: ReadTimeout,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sensor: %w", err)
	}
	if err := port.Flush(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to initialize sensor: %w", err)
	}
	return &serialDevice{port: port}, nil
}

func (s *serialDevice) ReadWithTimeout(b []byte, _ time.Duration) (int, error) {
	return s.port.Read(b)
}

func (s *serialDevice) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// ListSerialPorts returns candidate sensor ports for the current platform.
func ListSerialPorts() []string {
	var ports []string
	switch runtime.GOOS {
	case "windows":
		for i := 1; i <= 256; i++ {
			ports = append(ports, fmt.Sprintf("COM%d", i))
		}
	case "linux":
		files, err := os.ReadDir("/dev")
		if err != nil {
			log.Errorln("error reading /dev:", err)
			return nil
		}
		for _, file := range files {
			name := file.Name()
			if strings.Contains(name, "tty") && (strings.Contains(name, "USB") || strings.Contains(name, "ACM")) {
				ports = append(ports, "/dev/"+name)
			}
		}
	case "darwin":
		files, err := os.ReadDir("/dev")
		if err != nil {
			log.Errorln("error reading /dev:", err)
			return nil
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := file.Name()
			if strings.HasPrefix(name, "tty.") {
				ports = append(ports, "/dev/"+name)
			}
		}
	default:
		log.Warnf("unsupported platform: %s", runtime.GOOS)
	}
	return ports
}

func testSerialPort(name string) bool {
	c := &serial.Config{Name: name, Baud: DefaultSerialBaud, ReadTimeout: time.Second}
	s, err := serial.OpenPort(c)
	if err != nil {
		return false
	}
	defer func() { _ = s.Close() }()

	buf := make([]byte, BufferSize)
	n, err := s.Read(buf)
	return err == nil && n > 0
}

// ProbeSerialPorts reports ports that produce data at the default baud rate.
func ProbeSerialPorts() ([]string, error) {
	var valid []string
	for _, name := range ListSerialPorts() {
		if testSerialPort(name) {
			valid = append(valid, name)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoDevice
	}
	return valid, nil
}
