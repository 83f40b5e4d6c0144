package domain

import "time"

// LoadPolicy records which branch produced a toggle's starting value
type LoadPolicy string

const (
	// LoadPolicyStored: a durable row existed and was applied to the host
	LoadPolicyStored LoadPolicy = "stored"
	// LoadPolicyDefault: no durable row, configured default used, host untouched
	LoadPolicyDefault LoadPolicy = "default"
	// LoadPolicyFallback: durable store unreachable, fallback cache used, host untouched
	LoadPolicyFallback LoadPolicy = "fallback"
)

// ToggleStatus is the observable state machine of a boolean toggle
type ToggleStatus string

const (
	ToggleStatusUnknown ToggleStatus = "unknown"
	ToggleStatusOn      ToggleStatus = "on"
	ToggleStatusOff     ToggleStatus = "off"
)

// ToggleState is the snapshot handed to the presentation layer
type ToggleState struct {
	Key         string       `json:"key"`
	Value       bool         `json:"value"`
	Status      ToggleStatus `json:"status"`
	Loading     bool         `json:"loading"`
	Title       string       `json:"title"`
	Error       string       `json:"error,omitempty"`
	ErrorKind   ErrorKind    `json:"errorKind,omitempty"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Policy      LoadPolicy   `json:"policy,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt,omitempty"`
}

// ToggleText holds the user-facing strings of a toggle for both values
type ToggleText struct {
	Title          string
	OnLabel        string
	OffLabel       string
	OnDescription  string
	OffDescription string
}

// Label returns the label for the given value.
func (t ToggleText) Label(v bool) string {
	if v {
		return t.OnLabel
	}
	return t.OffLabel
}

// Description returns the description for the given value.
func (t ToggleText) Description(v bool) string {
	if v {
		return t.OnDescription
	}
	return t.OffDescription
}

// SkipTaskbarText is the copy shown for the taskbar visibility toggle
var SkipTaskbarText = ToggleText{
	Title:          "Taskbar Visibility",
	OnLabel:        "Hide from taskbar",
	OffLabel:       "Show in taskbar",
	OnDescription:  "Application is hidden from taskbar for discretion",
	OffDescription: "Application appears in taskbar like normal apps",
}

// Inline error messages
const (
	MessageLoadFailed   = "Failed to load setting"
	MessageUpdateFailed = "Failed to update setting"
)
