package debugserver

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is the resource usage reported by /debug/process.
type ProcessStats struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rssBytes"`
	CPUPercent float64 `json:"cpuPercent"`
	Goroutines int     `json:"goroutines"`
	HeapBytes  uint64  `json:"heapBytes"`
	UptimeSec  float64 `json:"uptimeSec"`
}

func processStats(started time.Time) (ProcessStats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	st := ProcessStats{
		PID:        int32(os.Getpid()),
		Goroutines: runtime.NumGoroutine(),
		HeapBytes:  ms.HeapAlloc,
		UptimeSec:  time.Since(started).Seconds(),
	}

	proc, err := process.NewProcess(st.PID)
	if err != nil {
		return st, err
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		st.RSSBytes = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	return st, nil
}
