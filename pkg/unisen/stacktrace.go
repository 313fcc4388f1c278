// stacktrace.go resolves raw stack trace text and runtime call sites into
// normalized frames.

package unisen

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// maxParsedFrames bounds how many frames any single source contributes.
const maxParsedFrames = 200

// Frame line patterns for the trace formats the classifier meets.
var (
	// Unity console frames: "Class.Method (args) (at File:line)", with the
	// location part optional and the method/args spacing inconsistent.
	unityFramePattern = regexp.MustCompile(`^([^\s(][^(]*)\(([^)]*)\)(?:\s*\(at\s+(.+):(\d+)\))?\s*$`)

	// Android throwable frames: "at com.pkg.Class.method(File.java:123)".
	// The line part is absent for native methods.
	androidFramePattern = regexp.MustCompile(`^at\s+([\w$.<>]+)\(([^:)]*)(?::(\d+))?\)$`)
)

// ParseUnityTrace resolves Unity console trace text into frames. Lines that
// do not look like frames are skipped; nil is returned when nothing parses.
func ParseUnityTrace(raw string) []StackFrame {
	if raw == "" {
		return nil
	}

	var frames []StackFrame
	for _, line := range strings.Split(raw, "\n") {
		m := unityFramePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		frame := StackFrame{Method: strings.TrimSpace(m[1]) + "(" + m[2] + ")"}
		if m[3] != "" {
			frame.File = m[3]
			frame.LineNumber, _ = strconv.Atoi(m[4])
		}

		frames = append(frames, frame)
		if len(frames) >= maxParsedFrames {
			break
		}
	}
	return frames
}

// ParseAndroidTrace resolves Java throwable trace text ("at ..." lines) into
// frames. Header and "Caused by:" lines are skipped; nil is returned when
// nothing parses.
func ParseAndroidTrace(raw string) []StackFrame {
	if raw == "" {
		return nil
	}

	var frames []StackFrame
	for _, line := range strings.Split(raw, "\n") {
		m := androidFramePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		frame := StackFrame{Method: m[1], File: m[2]}
		if m[3] != "" {
			frame.LineNumber, _ = strconv.Atoi(m[3])
		}

		frames = append(frames, frame)
		if len(frames) >= maxParsedFrames {
			break
		}
	}
	return frames
}

// CaptureCallSite resolves the calling goroutine's current stack into
// normalized frames, the canonical producer of the fallback trace used when
// a report's own source carries no frames. skip drops that many additional
// callers above the caller of CaptureCallSite.
func CaptureCallSite(skip int) []StackFrame {
	pcs := make([]uintptr, maxParsedFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	var frames []StackFrame
	iter := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := iter.Next()
		if fr.Function != "" {
			frames = append(frames, StackFrame{
				Method:     fr.Function,
				File:       fr.File,
				LineNumber: fr.Line,
			})
		}
		if !more {
			break
		}
	}
	return frames
}
