package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"true", true, true},
		{"false", false, true},
		{"", false, false},
		{"1", false, false},
		{"TRUE", false, false},
		{"true ", false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseBool(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatBool(t *testing.T) {
	if FormatBool(true) != "true" || FormatBool(false) != "false" {
		t.Errorf("FormatBool produced %q/%q", FormatBool(true), FormatBool(false))
	}
}

func TestPreferenceErrorKind(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", &PreferenceError{Kind: ErrorKindPersistenceFailed, Key: SettingKeySkipTaskbar, Err: cause})

	if got := KindOf(err); got != ErrorKindPersistenceFailed {
		t.Errorf("KindOf() = %q, want %q", got, ErrorKindPersistenceFailed)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := KindOf(cause); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
}

func TestSkipTaskbarText(t *testing.T) {
	if got := SkipTaskbarText.Label(true); got != "Hide from taskbar" {
		t.Errorf("Label(true) = %q", got)
	}
	if got := SkipTaskbarText.Label(false); got != "Show in taskbar" {
		t.Errorf("Label(false) = %q", got)
	}
	if got := SkipTaskbarText.Description(false); got != "Application appears in taskbar like normal apps" {
		t.Errorf("Description(false) = %q", got)
	}
}
