//go:build windows

package debug

// Working set (RSS) logger for Windows, correlating native memory with the Go
// heap while large images are decoded and resampled.

import (
	"context"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/windows"
)

// processMemoryCounters matches PROCESS_MEMORY_COUNTERS from psapi.
type processMemoryCounters struct {
	cb                         uint32
	PageFaultCount             uint32
	PeakWorkingSetSize         uintptr
	WorkingSetSize             uintptr
	QuotaPeakPagedPoolUsage    uintptr
	QuotaPagedPoolUsage        uintptr
	QuotaPeakNonPagedPoolUsage uintptr
	QuotaNonPagedPoolUsage     uintptr
	PagefileUsage              uintptr
	PeakPagefileUsage          uintptr
}

var (
	modPsapi                 = windows.NewLazySystemDLL("psapi.dll")
	procGetProcessMemoryInfo = modPsapi.NewProc("GetProcessMemoryInfo")
)

func workingSet() (uint64, error) {
	pmc := processMemoryCounters{cb: uint32(unsafe.Sizeof(processMemoryCounters{}))}
	r1, _, err := procGetProcessMemoryInfo.Call(uintptr(windows.CurrentProcess()), uintptr(unsafe.Pointer(&pmc)), uintptr(pmc.cb))
	if r1 == 0 {
		return 0, err
	}
	return uint64(pmc.WorkingSetSize), nil
}

// StartMemLogger logs RSS and heap stats every interval until ctx ends.
// A failing RSS query is logged once and then suppressed.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := workingSet()
			if err != nil && !rssErrLogged {
				logger.Warn("debug.memstats", slog.String("error", err.Error()))
				rssErrLogged = true
			}
			logger.Info("debug.memstats",
				slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
				slog.String("heap_inuse", humanize.Bytes(ms.HeapInuse)),
				slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
				slog.String("rss", humanize.Bytes(rss)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
