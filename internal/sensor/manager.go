package sensor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Manager owns the device lifecycle and the single acquisition goroutine.
// Consumers poll Latest for the last-known-good snapshot and TryReceive for
// readings that arrived since the previous check. A manager whose discovery
// failed stays permanently disabled: every poll returns the zero reading.
type Manager struct {
	cfg     Config
	decoder Decoder

	mu     sync.Mutex // guards latest, held for the copy only
	latest Reading

	updates chan Update

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running bool
	label   string
}

func NewManager(cfg Config) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollIntervalMS * time.Millisecond
	}
	return &Manager{
		cfg:     cfg,
		decoder: NewGenericDecoder(),
	}
}

// Start opens a device and spawns the acquisition loop. No-op when the
// config disables the sensor subsystem or the loop already runs. The two
// failure classes stay distinct: ErrHIDUnavailable when the host subsystem
// cannot be acquired, ErrNoDevice when nothing matched.
func (m *Manager) Start() error {
	if !m.cfg.Enabled || m.running {
		return nil
	}
	log.Infoln("starting sensor monitoring")

	var (
		dev   Device
		label string
		err   error
	)
	if m.cfg.SerialPort != "" {
		dev, err = OpenSerial(m.cfg.SerialPort, m.cfg.SerialBaud)
		label = m.cfg.SerialPort
	} else {
		var host Host
		host, err = NewHIDHost()
		if err != nil {
			log.Errorln("failed to initialize HID subsystem:", err)
			return err
		}
		dev, label, err = FindSensor(host)
	}
	if err != nil {
		return err
	}

	m.startAcquisition(dev, label)
	return nil
}

// startAcquisition wires the channel and spawns the loop around an already
// opened device.
func (m *Manager) startAcquisition(dev Device, label string) {
	m.updates = make(chan Update, UpdateQueueLen)
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.label = label
	m.running = true
	m.wg.Add(1)
	go m.acquire(dev)
}

// Stop cancels the loop and waits for it to release the device. Safe to call
// on a never-started or disabled manager.
func (m *Manager) Stop() {
	if !m.running {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.running = false
	log.Infoln("sensor monitoring stopped")
}

// Running reports whether the acquisition loop was spawned.
func (m *Manager) Running() bool {
	return m.running
}

// DeviceLabel names the opened device, empty while disabled.
func (m *Manager) DeviceLabel() string {
	return m.label
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Latest returns a copy of the most recent good reading. Never blocks;
// zero reading until the first successful decode.
func (m *Manager) Latest() Reading {
	m.mu.Lock()
	r := m.latest
	m.mu.Unlock()
	return r
}

// TryReceive drains one update if any arrived since the previous call.
// Never blocks.
func (m *Manager) TryReceive() (Update, bool) {
	if m.updates == nil {
		return Update{}, false
	}
	select {
	case u := <-m.updates:
		return u, true
	default:
		return Update{}, false
	}
}

// acquire is the single background loop: read under timeout, decode,
// publish, sleep. Read and decode failures are absorbed here; the last good
// snapshot survives them.
func (m *Manager) acquire(dev Device) {
	defer m.wg.Done()
	defer func() { _ = dev.Close() }()

	buf := make([]byte, BufferSize)
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		n, err := dev.ReadWithTimeout(buf, ReadTimeout)
		var upd Update
		if err != nil {
			upd.Err = &ReadError{Reason: err.Error()}
		} else {
			reading, derr := m.decoder.Decode(buf, n, time.Now())
			if derr != nil {
				upd.Err = derr
			} else {
				upd.Reading = reading
				m.mu.Lock()
				m.latest = reading
				m.mu.Unlock()
			}
		}
		if upd.Err != nil {
			log.Debugf("sensor %v error: %v", m.label, upd.Err)
		}
		m.publish(upd)

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(m.cfg.PollInterval):
		}
	}
}

// publish enqueues without blocking. A full queue means the consumer is not
// draining fast enough; the update is dropped.
func (m *Manager) publish(u Update) {
	select {
	case m.updates <- u:
	default:
	}
}

// Initialize builds a manager and tries to start it. Discovery failures are
// logged and swallowed: the returned manager operates in a disabled state so
// the monitor keeps running without sensor data.
func Initialize(cfg Config) *Manager {
	m := NewManager(cfg)
	if cfg.Enabled {
		if err := m.Start(); err != nil {
			log.Warnln("failed to start sensor monitoring:", err)
		}
	}
	return m
}
