package sensor

import (
	"errors"
	"testing"
	"time"
)

type nullDevice struct{}

func (nullDevice) ReadWithTimeout(b []byte, _ time.Duration) (int, error) { return 0, nil }
func (nullDevice) Close() error                                          { return nil }

type fakeHost struct {
	openable map[[2]uint16]bool
	attached []DeviceInfo
}

func (h *fakeHost) Open(vendorID, productID uint16) (Device, error) {
	if h.openable[[2]uint16{vendorID, productID}] {
		return nullDevice{}, nil
	}
	return nil, errors.New("open failed")
}

func (h *fakeHost) Enumerate(fn func(info DeviceInfo) error) error {
	for _, info := range h.attached {
		if err := fn(info); err != nil {
			return err
		}
	}
	return nil
}

func TestFindSensorTableOrderWins(t *testing.T) {
	// two supported devices attached at once: the earlier table entry must
	// win regardless of enumeration order
	host := &fakeHost{openable: map[[2]uint16]bool{
		{0x054c, 0x09cc}: true, // DualShock 4
		{0x1b4f, 0x9206}: true, // SparkFun 9DoF, earlier in the table
	}}
	_, label, err := FindSensor(host)
	if err != nil {
		t.Fatal(err)
	}
	if label != "SparkFun 9DoF" {
		t.Errorf("priority order broken: got %q", label)
	}
}

func TestFindSensorHeuristicKeywords(t *testing.T) {
	tests := []struct {
		name  string
		info  DeviceInfo
		found bool
	}{
		{"product gyro", DeviceInfo{VendorID: 1, ProductID: 1, ProductStr: "USB Gyro Stick"}, true},
		{"product motion", DeviceInfo{VendorID: 1, ProductID: 2, ProductStr: "Motion Tracker"}, true},
		{"product imu mixed case", DeviceInfo{VendorID: 1, ProductID: 3, ProductStr: "My IMU Board"}, true},
		{"manufacturer accel", DeviceInfo{VendorID: 1, ProductID: 4, ProductStr: "widget", MfrStr: "AccelCorp"}, true},
		{"manufacturer imu not matched", DeviceInfo{VendorID: 1, ProductID: 5, ProductStr: "widget", MfrStr: "IMU Makers"}, false},
		{"unrelated", DeviceInfo{VendorID: 1, ProductID: 6, ProductStr: "Keyboard", MfrStr: "Typing Inc"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := &fakeHost{
				openable: map[[2]uint16]bool{{tc.info.VendorID, tc.info.ProductID}: true},
				attached: []DeviceInfo{tc.info},
			}
			_, _, err := FindSensor(host)
			if tc.found && err != nil {
				t.Errorf("expected match, got %v", err)
			}
			if !tc.found && !errors.Is(err, ErrNoDevice) {
				t.Errorf("expected ErrNoDevice, got %v", err)
			}
		})
	}
}

func TestFindSensorHeuristicSkipsUnopenable(t *testing.T) {
	host := &fakeHost{
		openable: map[[2]uint16]bool{{2, 2}: true},
		attached: []DeviceInfo{
			{VendorID: 1, ProductID: 1, ProductStr: "gyro one"}, // matches but won't open
			{VendorID: 2, ProductID: 2, ProductStr: "gyro two"},
		},
	}
	_, label, err := FindSensor(host)
	if err != nil {
		t.Fatal(err)
	}
	if label != "gyro two" {
		t.Errorf("got %q", label)
	}
}

func TestFindSensorNotFound(t *testing.T) {
	host := &fakeHost{}
	_, _, err := FindSensor(host)
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
}

func TestProbeDevicesAnnotates(t *testing.T) {
	host := &fakeHost{attached: []DeviceInfo{
		{VendorID: 0x16c0, ProductID: 0x0486, ProductStr: "Teensy"},
		{VendorID: 0xdead, ProductID: 0xbeef, ProductStr: "Gyro Widget"},
		{VendorID: 0x1111, ProductID: 0x2222},
	}}
	lines, err := ProbeDevices(host)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if want := "16c0:0486 - Teensy [Unknown] (supported: MPU-6050)"; lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if want := "dead:beef - Gyro Widget [Unknown] (potential IMU)"; lines[1] != want {
		t.Errorf("line 1 = %q, want %q", lines[1], want)
	}
}
