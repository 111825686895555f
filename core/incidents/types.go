package incidents

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStatus = errors.New("incidents.error.unknown_status")
	ErrUnknownAction = errors.New("incidents.error.unknown_action")
	ErrInvalidFilter = errors.New("incidents.error.invalid_filter")
	ErrUnknownLevel  = errors.New("incidents.error.unknown_level")
)

type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusClosed        Status = "closed"
)

// Statuses lists the lifecycle states in tab order.
var Statuses = []Status{StatusOpen, StatusInvestigating, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

type Severity string

const (
	SeverityP1 Severity = "P1"
	SeverityP2 Severity = "P2"
	SeverityP3 Severity = "P3"
)

type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
	LevelWarn    Level = "WARN"
	LevelInfo    Level = "INFO"
	LevelDebug   Level = "DEBUG"
)

// NormalizeLevel upper-cases a level and folds WARN into WARNING.
func NormalizeLevel(raw string) Level {
	lvl := Level(strings.ToUpper(strings.TrimSpace(raw)))
	if lvl == LevelWarn {
		return LevelWarning
	}
	return lvl
}

// ParseLevel accepts the levels an event may be posted with. WARN is kept as sent.
func ParseLevel(raw string) (Level, error) {
	lvl := Level(strings.ToUpper(strings.TrimSpace(raw)))
	switch lvl {
	case LevelError, LevelWarning, LevelWarn, LevelInfo, LevelDebug:
		return lvl, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
}
