// hoststate.go captures host and process state at report time.

package unisen

import (
	"os"
	"runtime"
	"time"
)

// CaptureHostState captures machine and process details at the current
// moment. The startTime parameter is used to calculate process uptime.
func CaptureHostState(startTime time.Time) *HostState {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hostname, _ := os.Hostname() // Ignore error, empty hostname is acceptable

	uptimeMs := time.Since(startTime).Milliseconds()
	if uptimeMs < 0 {
		uptimeMs = 0 // Clamp to 0 if start time is in the future
	}

	return &HostState{
		HostName:       hostname,
		OSName:         runtime.GOOS,
		Architecture:   runtime.GOARCH,
		MemoryBytes:    int64(memStats.Alloc),
		GoroutineCount: runtime.NumGoroutine(),
		UptimeMs:       uptimeMs,
	}
}
