// scrubber.go implements fail-closed sensitive data redaction for crash reports.

package unisen

import (
	"regexp"
	"strings"
)

// ScrubberConfig controls scrubbing behavior.
type ScrubberConfig struct {
	// SensitivePatterns contains additional substrings that mark metadata keys sensitive.
	SensitivePatterns []string

	// MaxMessageSize is the maximum length for report messages (default: 4096).
	MaxMessageSize int

	// MaxStackFrames is the maximum number of frames kept per exception (default: 200).
	MaxStackFrames int

	// MaxBreadcrumbs is the maximum number of breadcrumbs kept per event (default: 25).
	MaxBreadcrumbs int

	// MaxMetadataValueSize is the maximum size per metadata string value (default: 1024).
	MaxMetadataValueSize int

	// ScrubMessages enables scrubbing of messages for secrets/PII (default: true).
	ScrubMessages bool

	// FailClosed enables fail-closed behavior: on any scrub failure, fully redact (default: true).
	FailClosed bool
}

// DefaultScrubberConfig returns production-safe defaults.
func DefaultScrubberConfig() ScrubberConfig {
	return ScrubberConfig{
		MaxMessageSize:       4096,
		MaxStackFrames:       200,
		MaxBreadcrumbs:       DefaultBreadcrumbCapacity,
		MaxMetadataValueSize: 1024,
		ScrubMessages:        true,
		FailClosed:           true,
	}
}

// Compiled regex patterns for message scrubbing (compiled once at package init)
var messageScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`), // Authorization: Bearer <token>
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),         // OpenAI-style keys (including sk-proj-)
	regexp.MustCompile(`(?i)ghp_[a-zA-Z0-9]{36}`),           // GitHub tokens
	regexp.MustCompile(`(?i)gho_[a-zA-Z0-9]{36}`),           // GitHub OAuth tokens
	regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),  // GitHub PAT
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`), // Slack tokens
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT tokens

	// Credentials
	regexp.MustCompile(`(?i)password[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)secret[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)passwd[=:\s]+['"]?[^\s'"",]+['"]?`),
	regexp.MustCompile(`(?i)credential[=:\s]+['"]?[^\s'"",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), // Email
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                               // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),          // Credit card
}

// Sensitive metadata key patterns (case-insensitive substring match)
var sensitiveKeyPatterns = []string{
	"token",
	"key",
	"secret",
	"password",
	"credential",
	"auth",
	"passwd",
}

// Path patterns to normalize in stack frame file names
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

// Scrubber redacts sensitive data from crash reports.
type Scrubber struct {
	cfg ScrubberConfig
}

// NewScrubber creates a new scrubber with the given configuration.
func NewScrubber(cfg ScrubberConfig) *Scrubber {
	return &Scrubber{cfg: cfg}
}

// ScrubEvent returns a scrubbed copy of the event. When FailClosed is set,
// any panic while scrubbing yields a fully redacted event instead of letting
// raw data escape.
func (s *Scrubber) ScrubEvent(event Event) (out Event) {
	if s.cfg.FailClosed {
		defer func() {
			if r := recover(); r != nil {
				out = redactedEvent(event)
			}
		}()
	}

	out = event
	out.Context = s.ScrubMessage(event.Context)

	if len(event.Exceptions) > 0 {
		records := make([]ExceptionRecord, len(event.Exceptions))
		for i, ex := range event.Exceptions {
			records[i] = ExceptionRecord{
				ErrorClass: truncateWithMarker(ex.ErrorClass, s.cfg.MaxMessageSize),
				Message:    s.ScrubMessage(ex.Message),
				StackTrace: s.scrubFrames(ex.StackTrace),
			}
		}
		out.Exceptions = records
	}

	out.Breadcrumbs = s.scrubBreadcrumbs(event.Breadcrumbs)
	out.Metadata = s.ScrubMetadata(event.Metadata)
	return out
}

// ScrubMessage scrubs sensitive patterns from a report message.
func (s *Scrubber) ScrubMessage(msg string) string {
	if !s.cfg.ScrubMessages {
		return msg
	}

	// Truncate if too large first
	if len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}

	// Apply all scrubbing patterns
	result := msg
	for _, pattern := range messageScrubPatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}

	return result
}

// ScrubMetadata redacts sensitive keys and recursively scrubs nested values.
func (s *Scrubber) ScrubMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	return s.scrubMap(meta)
}

// scrubFrames normalizes file paths and caps the number of frames.
func (s *Scrubber) scrubFrames(frames []StackFrame) []StackFrame {
	if frames == nil {
		return nil
	}

	n := len(frames)
	if s.cfg.MaxStackFrames > 0 && n > s.cfg.MaxStackFrames {
		n = s.cfg.MaxStackFrames
	}

	result := make([]StackFrame, n)
	for i := 0; i < n; i++ {
		frame := frames[i]
		frame.File = normalizePath(frame.File)
		result[i] = frame
	}
	return result
}

// scrubBreadcrumbs keeps the most recent breadcrumbs and scrubs their
// names and metadata values.
func (s *Scrubber) scrubBreadcrumbs(crumbs []Breadcrumb) []Breadcrumb {
	if crumbs == nil {
		return nil
	}

	if s.cfg.MaxBreadcrumbs > 0 && len(crumbs) > s.cfg.MaxBreadcrumbs {
		crumbs = crumbs[len(crumbs)-s.cfg.MaxBreadcrumbs:]
	}

	result := make([]Breadcrumb, len(crumbs))
	for i, crumb := range crumbs {
		crumb.Name = s.ScrubMessage(crumb.Name)
		if crumb.Metadata != nil {
			meta := make(map[string]string, len(crumb.Metadata))
			for key, value := range crumb.Metadata {
				if s.isSensitiveKey(key) {
					meta[key] = "[REDACTED]"
					continue
				}
				if len(value) > s.cfg.MaxMetadataValueSize {
					value = truncateWithMarker(value, s.cfg.MaxMetadataValueSize)
				}
				meta[key] = s.ScrubMessage(value)
			}
			crumb.Metadata = meta
		}
		result[i] = crumb
	}
	return result
}

// scrubValue recursively scrubs a metadata value (map, array, or primitive).
func (s *Scrubber) scrubValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return s.scrubMap(v)
	case []any:
		return s.scrubArray(v)
	case string:
		if len(v) > s.cfg.MaxMetadataValueSize {
			v = truncateWithMarker(v, s.cfg.MaxMetadataValueSize)
		}
		return s.ScrubMessage(v)
	default:
		return v // Numbers, booleans, null pass through
	}
}

// scrubMap scrubs a metadata section.
func (s *Scrubber) scrubMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for key, value := range m {
		// If key is sensitive, redact the entire value
		if s.isSensitiveKey(key) {
			result[key] = "[REDACTED]"
		} else {
			result[key] = s.scrubValue(value)
		}
	}
	return result
}

// scrubArray scrubs a metadata list.
func (s *Scrubber) scrubArray(arr []any) []any {
	result := make([]any, len(arr))
	for i, value := range arr {
		result[i] = s.scrubValue(value)
	}
	return result
}

// isSensitiveKey checks if a metadata key matches sensitive patterns.
func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range s.cfg.SensitivePatterns {
		if strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// normalizePath removes user-specific directories from a file path.
func normalizePath(path string) string {
	if path == "" {
		return path
	}
	result := path
	for _, pattern := range pathNormalizationPatterns {
		result = pattern.ReplaceAllString(result, "/[PATH]/")
	}
	return result
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}

// redactedEvent strips everything that could carry raw data while keeping
// the identity and handling fields needed to count the report.
func redactedEvent(event Event) Event {
	records := make([]ExceptionRecord, 0, len(event.Exceptions))
	for _, ex := range event.Exceptions {
		records = append(records, ExceptionRecord{
			ErrorClass: ex.ErrorClass,
			Message:    "[REDACTED:SCRUB_ERROR]",
			StackTrace: []StackFrame{},
		})
	}
	return Event{
		EventID:      event.EventID,
		Timestamp:    event.Timestamp,
		GroupingHash: event.GroupingHash,
		Exceptions:   records,
		Handling:     event.Handling,
		ReleaseStage: event.ReleaseStage,
		AppVersion:   event.AppVersion,
		Session:      event.Session,
	}
}
