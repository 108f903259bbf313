package sensor

import (
	"math"
	"time"
)

// Short-payload scale assumptions: ±2g accelerometer full scale and
// ±250°/s gyro full scale. These are protocol guesses for unidentified
// devices, not a verified contract.
const (
	accelLSBPerG   = 16384.0
	gyroLSBPerDeg  = 131.0
	floatFrameSize = 16 // minimum length for the float32 layout
	shortFrameSize = 6  // minimum length for the int16 fallback
)

// GenericDecoder guesses between two wire layouts by payload length:
// little-endian float32 components for frames of 16 bytes and up, and a
// big-endian int16 fixed-point fallback for 6 to 15 byte frames.
type GenericDecoder struct{}

func NewGenericDecoder() *GenericDecoder {
	return &GenericDecoder{}
}

// Decode converts the first n bytes of buf into a reading. n of zero is a
// read failure; a frame too short for either layout still yields a zeroed
// reading with a fresh timestamp.
func (d *GenericDecoder) Decode(buf []byte, n int, at time.Time) (Reading, error) {
	if n <= 0 {
		return Reading{}, &ReadError{Reason: "zero bytes read"}
	}
	if n > len(buf) {
		n = len(buf)
	}

	var r Reading
	switch {
	case n >= floatFrameSize:
		r.Accel[0] = F4(buf[0:])
		r.Accel[1] = F4(buf[4:])
		r.Accel[2] = F4(buf[8:])
		if n >= 24 {
			r.Gyro[0] = F4(buf[12:])
			r.Gyro[1] = F4(buf[16:])
			r.Gyro[2] = F4(buf[20:])
		}
		if n >= 28 {
			r.Temperature = F4(buf[24:])
		}
		if n >= 40 {
			r.Orientation[0] = F4(buf[28:])
			r.Orientation[1] = F4(buf[32:])
			r.Orientation[2] = F4(buf[36:])
		}
	case n >= shortFrameSize:
		r.Accel[0] = float32(I2BE(buf[0:])) / accelLSBPerG
		r.Accel[1] = float32(I2BE(buf[2:])) / accelLSBPerG
		r.Accel[2] = float32(I2BE(buf[4:])) / accelLSBPerG
		if n >= 12 {
			r.Gyro[0] = float32(I2BE(buf[6:])) / gyroLSBPerDeg
			r.Gyro[1] = float32(I2BE(buf[8:])) / gyroLSBPerDeg
			r.Gyro[2] = float32(I2BE(buf[10:])) / gyroLSBPerDeg
		}
	}

	r.Timestamp = at
	return r, nil
}

// F4 reassembles 4 little-endian bytes as an IEEE-754 single. Bit pattern
// reinterpretation, not a numeric conversion.
func F4(p []byte) float32 {
	if len(p) < 4 {
		return 0
	}
	bits := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
	return math.Float32frombits(bits)
}

// I2BE reads a signed 16-bit big-endian integer.
func I2BE(p []byte) int16 {
	if len(p) < 2 {
		return 0
	}
	return int16(uint16(p[0])<<8 | uint16(p[1]))
}
