// Package sysinfo captures a host resource snapshot for the /status endpoint.
package sysinfo

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type Snapshot struct {
	CapturedAt        time.Time `json:"captured_at"`
	Uptime            string    `json:"uptime"`
	Goroutines        int       `json:"goroutines"`
	HeapAllocBytes    uint64    `json:"heap_alloc_bytes"`
	ProcessRSSBytes   uint64    `json:"process_rss_bytes"`
	ProcessCPUPercent float64   `json:"process_cpu_percent"`
	SystemCPUPercent  float64   `json:"system_cpu_percent"`
	MemoryTotalBytes  uint64    `json:"memory_total_bytes"`
	MemoryUsedBytes   uint64    `json:"memory_used_bytes"`
	DiskTotalBytes    uint64    `json:"disk_total_bytes"`
	DiskUsedBytes     uint64    `json:"disk_used_bytes"`
}

var startedAt = time.Now()

// Capture never fails: probes that are unavailable on the host are left at zero.
func Capture(diskPath string) Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := Snapshot{
		CapturedAt:     time.Now().UTC(),
		Uptime:         time.Since(startedAt).Round(time.Second).String(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			snap.ProcessRSSBytes = info.RSS
		}
		if pct, err := proc.CPUPercent(); err == nil {
			snap.ProcessCPUPercent = pct
		}
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snap.SystemCPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemoryTotalBytes = vm.Total
		snap.MemoryUsedBytes = vm.Total - vm.Available
	}

	if diskPath == "" {
		diskPath = "/"
	}
	usage, err := disk.Usage(diskPath)
	if err != nil {
		usage, err = disk.Usage("/")
	}
	if err == nil {
		snap.DiskTotalBytes = usage.Total
		snap.DiskUsedBytes = usage.Used
	}
	return snap
}
