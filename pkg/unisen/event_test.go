package unisen

import (
	"errors"
	"testing"
)

func TestEvent_Validate(t *testing.T) {
	event := testEvent()
	if err := event.Validate(); err != nil {
		t.Errorf("Validate returned error for a complete event: %v", err)
	}
}

func TestEvent_Validate_NoRecords(t *testing.T) {
	event := Event{Handling: UnhandledCrash()}
	if err := event.Validate(); !errors.Is(err, ErrNoRecords) {
		t.Errorf("Expected ErrNoRecords, got %v", err)
	}
}

func TestEvent_Validate_EmptyErrorClass(t *testing.T) {
	event := Event{
		Exceptions: []ExceptionRecord{
			NewExceptionRecord("A", "", nil),
			NewExceptionRecord("", "missing class", nil),
		},
		Handling: UnhandledCrash(),
	}
	if err := event.Validate(); !errors.Is(err, ErrEmptyErrorClass) {
		t.Errorf("Expected ErrEmptyErrorClass, got %v", err)
	}
}

func TestEvent_TopException(t *testing.T) {
	event := Event{
		Exceptions: []ExceptionRecord{
			NewExceptionRecord("Root", "r", nil),
			NewExceptionRecord("Cause", "c", nil),
		},
	}

	top := event.TopException()
	if top.ErrorClass != "Root" {
		t.Errorf("TopException().ErrorClass = %q, want Root", top.ErrorClass)
	}
}

func TestEvent_TopException_Empty(t *testing.T) {
	top := Event{}.TopException()
	if top.ErrorClass != "" || top.Message != "" {
		t.Errorf("TopException() on empty event = %+v, want zero record", top)
	}
}
