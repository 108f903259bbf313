// Package monitor samples OS-level resource usage through gopsutil.
package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	log "github.com/sirupsen/logrus"
)

const bytesPerGB = 1 << 30

type HostInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	KernelVersion string `json:"kernel_version"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

type CPUStats struct {
	GlobalPercent float64   `json:"global_percent"`
	PerCore       []float64 `json:"per_core"`
	FreqMHz       float64   `json:"freq_mhz"`
}

type MemoryStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
	SwapPercent float64 `json:"swap_percent"`
}

type DiskStats struct {
	Device      string  `json:"device"`
	Mount       string  `json:"mount"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

type InterfaceStats struct {
	Name      string  `json:"name"`
	BytesRecv uint64  `json:"bytes_recv"`
	BytesSent uint64  `json:"bytes_sent"`
	RecvRate  float64 `json:"recv_rate"` // bytes/s since previous snapshot
	SendRate  float64 `json:"send_rate"`
}

type NetworkStats struct {
	Interfaces    []InterfaceStats `json:"interfaces"`
	TotalRecvRate float64          `json:"total_recv_rate"`
	TotalSendRate float64          `json:"total_send_rate"`
}

type ProcessInfo struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
	Status     string  `json:"status"`
}

type Snapshot struct {
	TakenAt   time.Time     `json:"taken_at"`
	Host      HostInfo      `json:"host"`
	CPU       CPUStats      `json:"cpu"`
	Memory    MemoryStats   `json:"memory"`
	Disks     []DiskStats   `json:"disks"`
	Network   NetworkStats  `json:"network"`
	Processes []ProcessInfo `json:"processes"`
}

// GB converts a byte count for display.
func GB(b uint64) float64 { return float64(b) / bytesPerGB }

// Sampler produces snapshots and keeps the previous per-interface byte
// counters so network rates can be derived. Safe for one caller at a time;
// rates on the first snapshot are zero.
type Sampler struct {
	mu       sync.Mutex
	lastAt   time.Time
	lastRecv map[string]uint64
	lastSent map[string]uint64
}

func NewSampler() *Sampler {
	return &Sampler{
		lastRecv: make(map[string]uint64),
		lastSent: make(map[string]uint64),
	}
}

// Snapshot collects every metric group. Per-group failures are logged and
// leave that group zeroed rather than failing the whole snapshot.
func (s *Sampler) Snapshot(maxProcesses int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	snap := Snapshot{TakenAt: now}
	snap.Host = sampleHost()
	snap.CPU = sampleCPU()
	snap.Memory = sampleMemory()
	snap.Disks = sampleDisks()
	snap.Network = s.sampleNetwork(now)
	if maxProcesses > 0 {
		snap.Processes = sampleProcesses(maxProcesses)
	}
	return snap
}

func sampleHost() HostInfo {
	info, err := host.Info()
	if err != nil {
		log.Warnln("host info:", err)
		return HostInfo{Hostname: "Unknown", OS: "Unknown", KernelVersion: "Unknown"}
	}
	return HostInfo{
		Hostname:      info.Hostname,
		OS:            info.OS,
		KernelVersion: info.KernelVersion,
		UptimeSeconds: info.Uptime,
	}
}

func sampleCPU() CPUStats {
	var stats CPUStats
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats.GlobalPercent = pct[0]
	} else if err != nil {
		log.Warnln("cpu percent:", err)
	}
	if perCore, err := cpu.Percent(0, true); err == nil {
		stats.PerCore = perCore
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		stats.FreqMHz = infos[0].Mhz
	}
	return stats
}

func sampleMemory() MemoryStats {
	var stats MemoryStats
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.Total = vm.Total
		stats.Used = vm.Used
		stats.UsedPercent = vm.UsedPercent
	} else {
		log.Warnln("virtual memory:", err)
	}
	if sw, err := mem.SwapMemory(); err == nil {
		stats.SwapTotal = sw.Total
		stats.SwapUsed = sw.Used
		stats.SwapPercent = sw.UsedPercent
	}
	return stats
}

func sampleDisks() []DiskStats {
	partitions, err := disk.Partitions(false)
	if err != nil {
		log.Warnln("disk partitions:", err)
		return nil
	}
	var disks []DiskStats
	for _, p := range partitions {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		disks = append(disks, DiskStats{
			Device:      p.Device,
			Mount:       p.Mountpoint,
			Total:       usage.Total,
			Used:        usage.Used,
			UsedPercent: usage.UsedPercent,
		})
	}
	return disks
}

func (s *Sampler) sampleNetwork(now time.Time) NetworkStats {
	var stats NetworkStats
	counters, err := net.IOCounters(true)
	if err != nil {
		log.Warnln("net counters:", err)
		return stats
	}
	elapsed := now.Sub(s.lastAt).Seconds()
	first := s.lastAt.IsZero()

	for _, c := range counters {
		iface := InterfaceStats{
			Name:      c.Name,
			BytesRecv: c.BytesRecv,
			BytesSent: c.BytesSent,
		}
		if !first && elapsed > 0 {
			if prev, ok := s.lastRecv[c.Name]; ok && c.BytesRecv >= prev {
				iface.RecvRate = float64(c.BytesRecv-prev) / elapsed
			}
			if prev, ok := s.lastSent[c.Name]; ok && c.BytesSent >= prev {
				iface.SendRate = float64(c.BytesSent-prev) / elapsed
			}
		}
		stats.TotalRecvRate += iface.RecvRate
		stats.TotalSendRate += iface.SendRate
		stats.Interfaces = append(stats.Interfaces, iface)
		s.lastRecv[c.Name] = c.BytesRecv
		s.lastSent[c.Name] = c.BytesSent
	}
	s.lastAt = now
	return stats
}

func sampleProcesses(max int) []ProcessInfo {
	procs, err := process.Processes()
	if err != nil {
		log.Warnln("process list:", err)
		return nil
	}
	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		cpuPct, _ := p.CPUPercent()
		info := ProcessInfo{PID: p.Pid, Name: name, CPUPercent: cpuPct}
		if memInfo, err := p.MemoryInfo(); err == nil && memInfo != nil {
			info.MemoryMB = float64(memInfo.RSS) / (1 << 20)
		}
		if status, err := p.Status(); err == nil && len(status) > 0 {
			info.Status = status[0]
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CPUPercent > infos[j].CPUPercent
	})
	if len(infos) > max {
		infos = infos[:max]
	}
	return infos
}
