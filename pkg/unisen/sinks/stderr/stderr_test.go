package stderr

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

func TestStderrSink_ImplementsSinkInterface(t *testing.T) {
	var _ unisen.Sink = NewStderrSink()
}

func captureStderr(fn func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	os.Stderr = old
	return buf.String()
}

func crashEvent() unisen.Event {
	return unisen.Event{
		EventID:   "evt-123",
		Timestamp: time.Date(2026, 1, 26, 15, 4, 5, 0, time.UTC),
		Exceptions: []unisen.ExceptionRecord{
			unisen.NewExceptionRecord("NullReferenceException", "Object reference not set", []unisen.StackFrame{
				{Method: "Game.Update()", File: "Assets/Game.cs", LineNumber: 42},
			}),
		},
		Handling:     unisen.UnhandledCrash(),
		Context:      "MainMenu",
		ReleaseStage: "production",
		GroupingHash: "abc123def456",
	}
}

func TestStderrSink_Write_FormatsOutput(t *testing.T) {
	sink := NewStderrSink()

	output := captureStderr(func() {
		sink.Write(context.Background(), crashEvent())
	})

	// Check for expected components in output
	if !strings.Contains(output, "[UNISEN]") {
		t.Errorf("Output should contain [UNISEN] prefix")
	}
	if !strings.Contains(output, "ERROR") {
		t.Errorf("Output should contain severity ERROR")
	}
	if !strings.Contains(output, "NullReferenceException") {
		t.Errorf("Output should contain the error class")
	}
	if !strings.Contains(output, "unhandled") {
		t.Errorf("Output should flag unhandled reports")
	}
	if !strings.Contains(output, "in MainMenu") {
		t.Errorf("Output should contain the context")
	}
	if !strings.Contains(output, "(release: production)") {
		t.Errorf("Output should contain the release stage")
	}
	if !strings.Contains(output, "Object reference not set") {
		t.Errorf("Output should contain message")
	}
	if !strings.Contains(output, "abc123def456") {
		t.Errorf("Output should contain grouping hash")
	}
}

func TestStderrSink_Write_IncludesSession(t *testing.T) {
	sink := NewStderrSink()

	event := crashEvent()
	event.Session = &unisen.SessionSnapshot{
		ID:        "sess-9",
		Handled:   2,
		Unhandled: 1,
	}

	output := captureStderr(func() {
		sink.Write(context.Background(), event)
	})

	if !strings.Contains(output, "sess-9") {
		t.Errorf("Output should contain session ID")
	}
	if !strings.Contains(output, "2 handled / 1 unhandled") {
		t.Errorf("Output should contain session counts, got:\n%s", output)
	}
}

func TestStderrSink_WithVerbose_IncludesStackTrace(t *testing.T) {
	sink := NewStderrSink(WithVerbose())

	output := captureStderr(func() {
		sink.Write(context.Background(), crashEvent())
	})

	if !strings.Contains(output, "at Game.Update()") {
		t.Errorf("Verbose output should include stack frames, got:\n%s", output)
	}
	if !strings.Contains(output, "Assets/Game.cs:42") {
		t.Errorf("Verbose output should include frame locations")
	}
}

func TestStderrSink_WithVerbose_PrintsCauseChain(t *testing.T) {
	sink := NewStderrSink(WithVerbose())

	event := crashEvent()
	event.Exceptions = append(event.Exceptions,
		unisen.NewExceptionRecord("IOException", "disk gone", nil))

	output := captureStderr(func() {
		sink.Write(context.Background(), event)
	})

	if !strings.Contains(output, "Caused by: IOException: disk gone") {
		t.Errorf("Verbose output should include the cause chain, got:\n%s", output)
	}
}

func TestStderrSink_NonVerbose_ExcludesStackTrace(t *testing.T) {
	sink := NewStderrSink() // Not verbose

	output := captureStderr(func() {
		sink.Write(context.Background(), crashEvent())
	})

	if strings.Contains(output, "Game.Update()") {
		t.Errorf("Non-verbose output should not include stack frames")
	}
}

func TestStderrSink_Flush_ReturnsNil(t *testing.T) {
	sink := NewStderrSink()
	err := sink.Flush(context.Background())
	if err != nil {
		t.Errorf("Flush returned error: %v", err)
	}
}

func TestStderrSink_Close_ReturnsNil(t *testing.T) {
	sink := NewStderrSink()
	err := sink.Close()
	if err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestStderrSink_SeverityFormatting(t *testing.T) {
	tests := []struct {
		severity unisen.Severity
		want     string
	}{
		{unisen.SeverityInfo, "INFO"},
		{unisen.SeverityWarning, "WARNING"},
		{unisen.SeverityError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			sink := NewStderrSink()
			event := crashEvent()
			event.Handling = unisen.HandledReport(tt.severity)

			output := captureStderr(func() {
				sink.Write(context.Background(), event)
			})

			if !strings.Contains(output, tt.want) {
				t.Errorf("Output should contain %q for severity %q", tt.want, tt.severity)
			}
		})
	}
}
