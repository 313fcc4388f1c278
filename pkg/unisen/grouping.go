// grouping.go generates stable hashes for grouping similar reports.

package unisen

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// groupingFrameCount is how many leading frames participate in grouping.
const groupingFrameCount = 3

// GroupingHash generates a hash for grouping similar reports.
// The hash is based on:
//   - the root error class and the severity reason
//   - method names of the first 3 stack frames
//
// It ignores variable data like timestamps, event IDs, messages,
// file paths, and line numbers.
func GroupingHash(event Event) string {
	top := event.TopException()

	// Build the hash input from stable fields
	var parts []string
	parts = append(parts, top.ErrorClass)
	parts = append(parts, string(event.Handling.Reason))

	for i, frame := range top.StackTrace {
		if i >= groupingFrameCount {
			break
		}
		parts = append(parts, frame.Method)
	}

	// Join and hash
	input := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(input))

	// Return hex-encoded first 16 bytes (32 hex chars)
	return hex.EncodeToString(hash[:16])
}
