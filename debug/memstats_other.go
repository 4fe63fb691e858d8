//go:build !windows

package debug

import (
	"context"
	"log/slog"
	"time"
)

// StartMemLogger is a no-op off Windows; StartGoroutineLogger covers the heap.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {}
