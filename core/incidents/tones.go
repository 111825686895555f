package incidents

import "strings"

// Tone is the presentation class a UI maps to a color.
type Tone string

const (
	ToneCritical Tone = "critical"
	ToneWarning  Tone = "warning"
	ToneInfo     Tone = "info"
	ToneSuccess  Tone = "success"
	ToneNeutral  Tone = "neutral"
)

func StatusTone(s Status) Tone {
	switch s {
	case StatusOpen:
		return ToneCritical
	case StatusInvestigating:
		return ToneWarning
	case StatusResolved:
		return ToneSuccess
	}
	return ToneNeutral
}

func SeverityTone(s Severity) Tone {
	switch s {
	case SeverityP1:
		return ToneCritical
	case SeverityP2:
		return ToneWarning
	case SeverityP3:
		return ToneInfo
	}
	return ToneNeutral
}

func LevelTone(raw string) Tone {
	switch NormalizeLevel(raw) {
	case LevelError:
		return ToneCritical
	case LevelWarning:
		return ToneWarning
	case LevelInfo:
		return ToneInfo
	}
	return ToneNeutral
}

// DisplayLevel is the upper-cased level shown next to an event.
func DisplayLevel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
