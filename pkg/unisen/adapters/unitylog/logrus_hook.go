// logrus_hook.go forwards error-level logrus entries into the log pipeline
// so host applications get crash reports without extra call sites.

package unitylog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// CrashHook is a logrus hook that feeds error-level entries to a
// LogProcessor. Install with logger.AddHook.
type CrashHook struct {
	processor *LogProcessor
}

// NewCrashHook creates a hook backed by the given processor.
func NewCrashHook(processor *LogProcessor) *CrashHook {
	return &CrashHook{processor: processor}
}

// Levels reports the entry levels the hook fires on.
func (h *CrashHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.ErrorLevel,
		logrus.FatalLevel,
		logrus.PanicLevel,
	}
}

// Fire forwards the entry as a log event. An attached error value takes
// over the condition so the report carries its Go type as the class.
func (h *CrashHook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}

	event := unisen.LogEvent{
		Condition: entry.Message,
		Type:      hookLogType(entry.Level),
	}
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok && err != nil {
		event.Condition = fmt.Sprintf("%T: %s", err, err)
	}

	h.processor.HandleLog(ctx, event)
	return nil
}

func hookLogType(level logrus.Level) unisen.LogType {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return unisen.LogTypeException
	default:
		return unisen.LogTypeError
	}
}
