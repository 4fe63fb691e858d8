package debug

// Runtime metrics logger, started only when config.Debug is true. Emits the
// goroutine count and stack/heap usage at a fixed interval until ctx ends.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// StartGoroutineLogger launches a ticker that logs goroutine count and stack memory.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Info("debug.runtime",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
				slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
