package incidents

type Incident struct {
	ID                 int64     `json:"id"`
	Service            string    `json:"service"`
	Category           string    `json:"category,omitempty"`
	Severity           Severity  `json:"severity,omitempty"`
	Summary            string    `json:"summary,omitempty"`
	RecommendedActions []string  `json:"recommended_actions"`
	Status             Status    `json:"status"`
	CreatedAt          Timestamp `json:"created_at"`
	UpdatedAt          Timestamp `json:"updated_at"`
	Events             []Event   `json:"events,omitempty"`
}

type IncidentSummary struct {
	ID         int64     `json:"id"`
	Service    string    `json:"service"`
	Category   string    `json:"category,omitempty"`
	Severity   Severity  `json:"severity,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
	EventCount int       `json:"event_count"`
}

type Event struct {
	ID        int64     `json:"id"`
	Service   string    `json:"service"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}

type EventInput struct {
	Service string `json:"service"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// EventAck is what the store returns for an ingested event. Fields are best effort.
type EventAck struct {
	ID         int64  `json:"id,omitempty"`
	Status     string `json:"status,omitempty"`
	IncidentID *int64 `json:"incident_id,omitempty"`
}

// Clone returns a deep copy so callers can hand incidents out without sharing slices.
func (i Incident) Clone() Incident {
	out := i
	if i.RecommendedActions != nil {
		out.RecommendedActions = append([]string(nil), i.RecommendedActions...)
	}
	if i.Events != nil {
		out.Events = append([]Event(nil), i.Events...)
	}
	return out
}

// WithStatus returns a copy with only the status replaced.
func (i Incident) WithStatus(s Status) Incident {
	out := i.Clone()
	out.Status = s
	return out
}
