package sensor

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/sstallion/go-hid"
)

// knownSensor is one entry of the supported-device table. Table order is
// priority order: the first entry that opens wins.
type knownSensor struct {
	vendorID  uint16
	productID uint16
	label     string
}

var knownSensors = []knownSensor{
	// MPU-6050 based USB adapters
	{0x16c0, 0x0486, "MPU-6050"},
	// Common IMU adapters
	{0x2341, 0x8036, "Arduino Leonardo"}, // Arduino with IMU shield
	{0x1b4f, 0x9206, "SparkFun 9DoF"},
	// Mainstream gaming controllers with gyro (for testing)
	{0x054c, 0x09cc, "Sony DualShock 4"},
	{0x057e, 0x2009, "Nintendo Switch Pro Controller"},
}

// motionKeywords flag a device as a potential IMU during the heuristic scan.
var motionKeywords = []string{"gyro", "accel", "imu", "motion"}

// FindSensor opens the first supported device. Phase one walks the known
// table in order, phase two scans every attached device and matches the
// product/manufacturer strings against motion keywords. Each call is
// idempotent: no state survives a failed attempt.
func FindSensor(host Host) (Device, string, error) {
	for _, ks := range knownSensors {
		log.Debugf("looking for sensor: %s (%04x:%04x)", ks.label, ks.vendorID, ks.productID)
		if dev, err := host.Open(ks.vendorID, ks.productID); err == nil {
			log.Infof("found supported sensor: %s", ks.label)
			return dev, ks.label, nil
		}
	}

	log.Debugln("no exact match found, scanning all HID devices")
	var (
		found Device
		label string
	)
	err := host.Enumerate(func(info DeviceInfo) error {
		if found != nil {
			return nil
		}
		log.Debugf("HID device: %04x:%04x - %s [%s]",
			info.VendorID, info.ProductID, info.ProductStr, info.MfrStr)
		if !matchesMotionKeywords(info) {
			return nil
		}
		log.Infof("found potential IMU device: %s from %s", info.ProductStr, info.MfrStr)
		if dev, err := host.Open(info.VendorID, info.ProductID); err == nil {
			found = dev
			label = info.ProductStr
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if found != nil {
		return found, label, nil
	}
	return nil, "", ErrNoDevice
}

func matchesMotionKeywords(info DeviceInfo) bool {
	product := strings.ToLower(info.ProductStr)
	manufacturer := strings.ToLower(info.MfrStr)
	for _, kw := range motionKeywords {
		if strings.Contains(product, kw) {
			return true
		}
	}
	// manufacturer strings only match the two strongest keywords
	return strings.Contains(manufacturer, "gyro") || strings.Contains(manufacturer, "accel")
}

// hidHost adapts the go-hid package to the Host interface.
type hidHost struct{}

// NewHIDHost initializes the platform HID subsystem.
func NewHIDHost() (Host, error) {
	if err := hid.Init(); err != nil {
		return nil, ErrHIDUnavailable
	}
	return &hidHost{}, nil
}

func (h *hidHost) Open(vendorID, productID uint16) (Device, error) {
	return hid.OpenFirst(vendorID, productID)
}

func (h *hidHost) Enumerate(fn func(info DeviceInfo) error) error {
	return hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		return fn(DeviceInfo{
			VendorID:   info.VendorID,
			ProductID:  info.ProductID,
			ProductStr: info.ProductStr,
			MfrStr:     info.MfrStr,
		})
	})
}

// ProbeDevices lists every attached HID device, marking the ones the
// heuristic would pick up. Used by the probe command.
func ProbeDevices(host Host) ([]string, error) {
	var lines []string
	err := host.Enumerate(func(info DeviceInfo) error {
		line := formatDeviceLine(info)
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoDevice
	}
	return lines, nil
}

func formatDeviceLine(info DeviceInfo) string {
	tag := ""
	if matchesMotionKeywords(info) {
		tag = " (potential IMU)"
	}
	for _, ks := range knownSensors {
		if ks.vendorID == info.VendorID && ks.productID == info.ProductID {
			tag = " (supported: " + ks.label + ")"
			break
		}
	}
	product := info.ProductStr
	if product == "" {
		product = "Unknown"
	}
	mfr := info.MfrStr
	if mfr == "" {
		mfr = "Unknown"
	}
	return fmt.Sprintf("%04x:%04x - %s [%s]%s", info.VendorID, info.ProductID, product, mfr, tag)
}
