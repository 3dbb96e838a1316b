// Package hostmetrics reports the simulator process's own resource
// footprint (distinct from simulated miner telemetry), for operators
// running large fleets who want to know the cost of the simulation itself
// rather than anything about the miners it simulates (SPEC_FULL.md §4.8).
package hostmetrics

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Snapshot is the host/process metrics reported on /healthz.
type Snapshot struct {
	ProcessCPUPercent float64 `json:"process_cpu_percent"`
	ProcessRSSBytes   uint64  `json:"process_rss_bytes"`
	HostCPUPercent    float64 `json:"host_cpu_percent"`
	HostMemUsedPct    float64 `json:"host_mem_used_percent"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Reporter samples process and host metrics on demand.
type Reporter struct {
	startedAt time.Time
	pid       int32
}

// New constructs a Reporter for the current process.
func New() *Reporter {
	return &Reporter{startedAt: time.Now(), pid: int32(os.Getpid())}
}

// Sample reads current process/host metrics. Any individual probe failure
// is non-fatal: the corresponding field is left at zero rather than
// failing the whole health check.
func (r *Reporter) Sample() Snapshot {
	snap := Snapshot{UptimeSeconds: time.Since(r.startedAt).Seconds()}

	if proc, err := process.NewProcess(r.pid); err == nil {
		if pct, err := proc.CPUPercent(); err == nil {
			snap.ProcessCPUPercent = pct
		}
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			snap.ProcessRSSBytes = info.RSS
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		snap.HostMemUsedPct = vm.UsedPercent
	}

	// interval=0 reports the delta since the previous call (non-blocking);
	// the first call in a process's lifetime returns 0.
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snap.HostCPUPercent = pcts[0]
	}

	return snap
}
