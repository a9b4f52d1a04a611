package models

import (
	"strings"
	"time"
)

// Mode is the process-wide resolution mode. Manual overrides participate in
// resolution precedence only while the mode is MANUAL.
type Mode string

const (
	ModeAutomatic Mode = "AUTOMATIC"
	ModeManual    Mode = "MANUAL"
)

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToUpper(s)) {
	case ModeAutomatic:
		return ModeAutomatic, true
	case ModeManual:
		return ModeManual, true
	}
	return "", false
}

// Timer interval bounds in seconds.
const (
	MinIntervalSeconds     = 10
	MaxIntervalSeconds     = 300
	DefaultIntervalSeconds = 180
)

// EngineSettings holds the mutable engine configuration. IntervalSeconds
// applies only to cycles created after a change; an in-flight cycle keeps
// the end time it was scheduled with.
type EngineSettings struct {
	Mode            Mode      `bson:"mode" json:"mode"`
	IntervalSeconds int       `bson:"intervalSeconds" json:"intervalSeconds"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultEngineSettings returns the settings used before any operator change.
func DefaultEngineSettings() *EngineSettings {
	return &EngineSettings{
		Mode:            ModeAutomatic,
		IntervalSeconds: DefaultIntervalSeconds,
	}
}
