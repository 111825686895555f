package incidents

import (
	"fmt"
	"strings"
)

type StatusFilter string

const FilterAll StatusFilter = "all"

func ParseStatusFilter(raw string) (StatusFilter, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || v == string(FilterAll) {
		return FilterAll, nil
	}
	if !Status(v).Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return StatusFilter(v), nil
}

func (f StatusFilter) Matches(s Status) bool {
	return f == FilterAll || Status(f) == s
}

// Filter returns a new slice in source order; src is never modified.
func Filter(src []IncidentSummary, f StatusFilter) []IncidentSummary {
	out := make([]IncidentSummary, 0, len(src))
	for _, item := range src {
		if f.Matches(item.Status) {
			out = append(out, item)
		}
	}
	return out
}

type StatusCounts struct {
	All           int `json:"all"`
	Open          int `json:"open"`
	Investigating int `json:"investigating"`
	Resolved      int `json:"resolved"`
	Closed        int `json:"closed"`
}

func Count(src []IncidentSummary) StatusCounts {
	counts := StatusCounts{All: len(src)}
	for _, item := range src {
		switch item.Status {
		case StatusOpen:
			counts.Open++
		case StatusInvestigating:
			counts.Investigating++
		case StatusResolved:
			counts.Resolved++
		case StatusClosed:
			counts.Closed++
		}
	}
	return counts
}
