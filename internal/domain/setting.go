package domain

import (
	"errors"
	"fmt"
	"time"
)

// Setting keys persisted in app_settings
const (
	SettingKeySkipTaskbar = "skip_taskbar"
	SettingKeyAutostart   = "autostart"
	SettingKeyAlwaysOnTop = "always_on_top"
)

// Literal values stored for boolean settings
const (
	SettingValueTrue  = "true"
	SettingValueFalse = "false"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrMalformedRecord = errors.New("malformed setting record")
	ErrHostUnsupported = errors.New("host operation not supported on this platform")
	ErrBusy            = errors.New("another update is in progress")
	ErrNotInitialized  = errors.New("setting not initialized")
	ErrUnknownSetting  = errors.New("unknown setting")
)

// SystemSetting is one row of the durable key/value store
type SystemSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormatBool serializes a boolean the way existing persisted data expects.
func FormatBool(v bool) string {
	if v {
		return SettingValueTrue
	}
	return SettingValueFalse
}

// ParseBool treats exactly "true" as true. Any other stored value reads as
// false; ok reports whether the value was one of the two literals.
func ParseBool(s string) (value bool, ok bool) {
	switch s {
	case SettingValueTrue:
		return true, true
	case SettingValueFalse:
		return false, true
	default:
		return false, false
	}
}

// ErrorKind classifies failures surfaced by a toggle
type ErrorKind string

const (
	ErrorKindStoreUnavailable  ErrorKind = "store_unavailable"
	ErrorKindHostEffectFailed  ErrorKind = "host_effect_failed"
	ErrorKindPersistenceFailed ErrorKind = "persistence_failed"
	ErrorKindMalformedRecord   ErrorKind = "malformed_record"
)

// PreferenceError carries the failure kind together with the underlying cause
type PreferenceError struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *PreferenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Key, e.Kind, e.Err)
}

func (e *PreferenceError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or "" if err is not a PreferenceError.
func KindOf(err error) ErrorKind {
	var pe *PreferenceError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
