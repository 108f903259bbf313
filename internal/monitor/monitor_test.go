package monitor

import (
	"testing"
	"time"
)

func TestSnapshotBasics(t *testing.T) {
	s := NewSampler()
	snap := s.Snapshot(5)

	if snap.TakenAt.IsZero() {
		t.Error("snapshot not timestamped")
	}
	if snap.Memory.Total == 0 {
		t.Error("total memory is zero")
	}
	if snap.Memory.UsedPercent < 0 || snap.Memory.UsedPercent > 100 {
		t.Errorf("memory percent out of range: %v", snap.Memory.UsedPercent)
	}
	if len(snap.Processes) > 5 {
		t.Errorf("process cap ignored: %d", len(snap.Processes))
	}
}

func TestFirstSnapshotRatesZero(t *testing.T) {
	s := NewSampler()
	snap := s.Snapshot(0)
	if snap.Network.TotalRecvRate != 0 || snap.Network.TotalSendRate != 0 {
		t.Errorf("first snapshot has non-zero rates: %v/%v",
			snap.Network.TotalRecvRate, snap.Network.TotalSendRate)
	}
	if len(snap.Processes) != 0 {
		t.Errorf("processes sampled with maxProcesses=0")
	}
}

func TestSnapshotRatesNonNegative(t *testing.T) {
	s := NewSampler()
	s.Snapshot(0)
	time.Sleep(20 * time.Millisecond)
	snap := s.Snapshot(0)
	for _, iface := range snap.Network.Interfaces {
		if iface.RecvRate < 0 || iface.SendRate < 0 {
			t.Errorf("negative rate on %s", iface.Name)
		}
	}
}

func TestProcessOrdering(t *testing.T) {
	s := NewSampler()
	snap := s.Snapshot(20)
	for i := 1; i < len(snap.Processes); i++ {
		if snap.Processes[i].CPUPercent > snap.Processes[i-1].CPUPercent {
			t.Fatalf("processes not sorted by CPU descending at %d", i)
		}
	}
}

func TestGB(t *testing.T) {
	if got := GB(1 << 30); got != 1.0 {
		t.Errorf("GB(1GiB) = %v", got)
	}
}
