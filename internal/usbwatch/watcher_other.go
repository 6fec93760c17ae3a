//go:build !darwin

package usbwatch

import (
	"context"
	"log"
	"runtime"
)

// Watch returns a channel that never fires. Arrivals are only reported on
// macOS; elsewhere the caller's polling finds new devices.
func Watch(ctx context.Context, m Match) <-chan struct{} {
	log.Printf("usbwatch: arrival notifications unavailable on %s, polling for %v", runtime.GOOS, m)
	return nil
}
