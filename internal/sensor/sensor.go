package sensor

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPollIntervalMS is the loop sleep between two reads.
	DefaultPollIntervalMS = 100
	// ReadTimeout bounds a single hardware read.
	ReadTimeout = 100 * time.Millisecond
	// BufferSize is the common report size for HID devices.
	BufferSize = 64
	// UpdateQueueLen bounds the update channel, extra readings are dropped.
	UpdateQueueLen = 10
)

// Reading is one decoded motion sample. Value type, copied freely.
type Reading struct {
	Timestamp   time.Time
	Accel       [3]float32 // x, y, z in m/s²
	Gyro        [3]float32 // x, y, z in deg/s
	Orientation [3]float32 // roll, pitch, yaw in degrees
	Temperature float32    // °C, 0.0 when the payload carries none
}

// HasMotion reports whether any accel/gyro axis is non-zero. A zero reading
// means the device never produced data.
func (r Reading) HasMotion() bool {
	for i := 0; i < 3; i++ {
		if r.Accel[i] != 0 || r.Gyro[i] != 0 {
			return true
		}
	}
	return false
}

// HasOrientation reports whether the payload carried roll/pitch/yaw.
func (r Reading) HasOrientation() bool {
	return r.Orientation[0] != 0 || r.Orientation[1] != 0 || r.Orientation[2] != 0
}

// Config is fixed once the manager starts.
type Config struct {
	Enabled      bool
	PollInterval time.Duration
	UseCelsius   bool
	SerialPort   string // non-empty selects the serial source over HID
	SerialBaud   int
}

func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		PollInterval: DefaultPollIntervalMS * time.Millisecond,
		UseCelsius:   true,
	}
}

// Update is one item on the manager's update channel: either a fresh reading
// or the error of a failed read cycle.
type Update struct {
	Reading Reading
	Err     error
}

var (
	// ErrNoDevice means discovery exhausted the known table and the
	// heuristic scan without opening anything.
	ErrNoDevice = errors.New("no compatible sensor found")
	// ErrHIDUnavailable means the host HID subsystem itself could not be
	// initialized. Unlike ErrNoDevice a retry may help.
	ErrHIDUnavailable = errors.New("HID subsystem unavailable")
	// ErrDisconnected is reserved for explicit removal detection; today a
	// physical disconnect only shows up as read errors.
	ErrDisconnected = errors.New("sensor disconnected")
)

// ReadError marks a single failed read cycle. Always transient: the loop
// forwards it and keeps going.
type ReadError struct {
	Reason string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read from sensor: %s", e.Reason)
}

// Device is an open sensor handle. Exclusively owned by the acquisition loop,
// never read from two goroutines. *hid.Device satisfies this directly.
type Device interface {
	ReadWithTimeout(b []byte, timeout time.Duration) (int, error)
	Close() error
}

// DeviceInfo describes one enumerated HID device.
type DeviceInfo struct {
	VendorID   uint16
	ProductID  uint16
	ProductStr string
	MfrStr     string
}

// Host is the platform HID capability: open by identifier and enumerate all
// attached devices. Implemented by hidHost, faked in tests.
type Host interface {
	Open(vendorID, productID uint16) (Device, error)
	Enumerate(fn func(info DeviceInfo) error) error
}

// Decoder turns a raw report into a reading. The generic two-layout decoder
// is a heuristic for unidentified devices; a real device profile can replace
// it without touching the loop.
type Decoder interface {
	Decode(buf []byte, n int, at time.Time) (Reading, error)
}
