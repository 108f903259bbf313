package sensor

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// scriptDevice replays a fixed sequence of read outcomes, repeating the last
// one forever.
type scriptDevice struct {
	mu     sync.Mutex
	frames [][]byte
	errs   []error
	idx    int
	closed bool
}

func (d *scriptDevice) ReadWithTimeout(b []byte, _ time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.idx
	if i >= len(d.frames) {
		i = len(d.frames) - 1
	} else {
		d.idx++
	}
	if d.errs[i] != nil {
		return 0, d.errs[i]
	}
	return copy(b, d.frames[i]), nil
}

func (d *scriptDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *scriptDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func accelFrame(x float32) []byte {
	buf := make([]byte, 16)
	putF4(buf, 0, x)
	return buf
}

func testConfig() Config {
	return Config{Enabled: true, PollInterval: time.Millisecond, UseCelsius: true}
}

func TestDisabledManagerNoOps(t *testing.T) {
	m := NewManager(Config{Enabled: false})
	if err := m.Start(); err != nil {
		t.Fatalf("disabled start: %v", err)
	}
	if m.Running() {
		t.Error("disabled manager reports running")
	}
	if r := m.Latest(); r != (Reading{}) {
		t.Errorf("expected zero reading, got %+v", r)
	}
	if _, ok := m.TryReceive(); ok {
		t.Error("disabled manager produced an update")
	}
	m.Stop() // must not panic
}

func TestLatestDefaultBeforeData(t *testing.T) {
	m := NewManager(testConfig())
	if r := m.Latest(); r != (Reading{}) {
		t.Errorf("expected zero reading before any read, got %+v", r)
	}
}

func TestChannelBackpressureDropOnFull(t *testing.T) {
	m := NewManager(testConfig())
	m.updates = make(chan Update, UpdateQueueLen)

	for i := 0; i < UpdateQueueLen+1; i++ {
		m.publish(Update{Reading: Reading{Accel: [3]float32{float32(i), 0, 0}}})
	}

	for i := 0; i < UpdateQueueLen; i++ {
		u, ok := m.TryReceive()
		if !ok {
			t.Fatalf("update %d missing", i)
		}
		if got := u.Reading.Accel[0]; got != float32(i) {
			t.Errorf("update %d out of order: accel[0]=%v", i, got)
		}
	}
	if _, ok := m.TryReceive(); ok {
		t.Error("11th update survived a full queue")
	}
}

func TestLastKnownGoodSurvivesReadError(t *testing.T) {
	dev := &scriptDevice{
		frames: [][]byte{accelFrame(1.25), nil},
		errs:   []error{nil, errors.New("read timed out")},
	}
	m := NewManager(testConfig())
	m.startAcquisition(dev, "test")
	defer m.Stop()

	deadline := time.Now().Add(2 * time.Second)
	sawGood, sawErr := false, false
	for time.Now().Before(deadline) && !(sawGood && sawErr) {
		u, ok := m.TryReceive()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		if u.Err != nil {
			sawErr = true
		} else if u.Reading.Accel[0] == 1.25 {
			sawGood = true
		}
	}
	if !sawGood || !sawErr {
		t.Fatalf("expected both a good reading and an error, got good=%v err=%v", sawGood, sawErr)
	}
	if got := m.Latest().Accel[0]; got != 1.25 {
		t.Errorf("last-known-good lost after read error: accel[0]=%v", got)
	}
}

func TestStopJoinsLoopAndClosesDevice(t *testing.T) {
	dev := &scriptDevice{
		frames: [][]byte{accelFrame(1)},
		errs:   []error{nil},
	}
	m := NewManager(testConfig())
	m.startAcquisition(dev, "test")
	if !m.Running() {
		t.Fatal("manager not running after start")
	}

	m.Stop()
	if m.Running() {
		t.Error("manager still running after stop")
	}
	if !dev.isClosed() {
		t.Error("device not closed after stop")
	}
}

func TestZeroByteReadForwardsError(t *testing.T) {
	dev := &scriptDevice{
		frames: [][]byte{{}},
		errs:   []error{nil},
	}
	m := NewManager(testConfig())
	m.startAcquisition(dev, "test")
	defer m.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		u, ok := m.TryReceive()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		if u.Err == nil {
			t.Fatalf("expected read error for empty frame, got %+v", u.Reading)
		}
		if _, isRead := u.Err.(*ReadError); !isRead {
			t.Fatalf("expected *ReadError, got %T", u.Err)
		}
		return
	}
	t.Fatal("no update arrived")
}
