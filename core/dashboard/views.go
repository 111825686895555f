package dashboard

import "opsassist-dashboard/core/incidents"

type ActionView struct {
	Action incidents.Action `json:"action"`
	Label  string           `json:"label"`
	Target incidents.Status `json:"target"`
}

type EventView struct {
	incidents.Event
	DisplayLevel string         `json:"display_level"`
	LevelTone    incidents.Tone `json:"level_tone"`
}

type DetailView struct {
	Incident     incidents.Incident `json:"incident"`
	Events       []EventView        `json:"events"`
	StatusTone   incidents.Tone     `json:"status_tone"`
	SeverityTone incidents.Tone     `json:"severity_tone"`
	Actions      []ActionView       `json:"actions"`
	Busy         bool               `json:"busy"`
}

type ListItemView struct {
	incidents.IncidentSummary
	StatusTone   incidents.Tone `json:"status_tone"`
	SeverityTone incidents.Tone `json:"severity_tone"`
}

type ListView struct {
	Filter incidents.StatusFilter `json:"filter"`
	Items  []ListItemView         `json:"items"`
	Counts incidents.StatusCounts `json:"counts"`
}

func buildDetailView(inc incidents.Incident, busy bool) DetailView {
	events := make([]EventView, 0, len(inc.Events))
	for _, ev := range inc.Events {
		events = append(events, EventView{
			Event:        ev,
			DisplayLevel: incidents.DisplayLevel(ev.Level),
			LevelTone:    incidents.LevelTone(ev.Level),
		})
	}
	transitions := incidents.AvailableTransitions(inc.Status)
	actions := make([]ActionView, 0, len(transitions))
	for _, tr := range transitions {
		actions = append(actions, ActionView{Action: tr.Action, Label: tr.Label, Target: tr.To})
	}
	detail := inc.Clone()
	detail.Events = nil
	if detail.RecommendedActions == nil {
		detail.RecommendedActions = []string{}
	}
	return DetailView{
		Incident:     detail,
		Events:       events,
		StatusTone:   incidents.StatusTone(inc.Status),
		SeverityTone: incidents.SeverityTone(inc.Severity),
		Actions:      actions,
		Busy:         busy,
	}
}

func buildListItems(items []incidents.IncidentSummary) []ListItemView {
	out := make([]ListItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ListItemView{
			IncidentSummary: it,
			StatusTone:      incidents.StatusTone(it.Status),
			SeverityTone:    incidents.SeverityTone(it.Severity),
		})
	}
	return out
}
