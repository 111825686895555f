package incidents

import (
	"errors"
	"testing"
)

func TestAvailableTransitionsPerStatus(t *testing.T) {
	cases := []struct {
		from Status
		want []Action
	}{
		{from: StatusOpen, want: []Action{ActionStartInvestigation}},
		{from: StatusInvestigating, want: []Action{ActionResolve, ActionReopen}},
		{from: StatusResolved, want: []Action{ActionClose, ActionReopen}},
		{from: StatusClosed, want: nil},
		{from: Status("archived"), want: nil},
	}
	for _, tc := range cases {
		t.Run(string(tc.from), func(t *testing.T) {
			got := AvailableTransitions(tc.from)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d transitions, got %d: %+v", len(tc.want), len(got), got)
			}
			for i, tr := range got {
				if tr.Action != tc.want[i] {
					t.Fatalf("transition %d: expected %s, got %s", i, tc.want[i], tr.Action)
				}
				if tr.From != tc.from {
					t.Fatalf("transition %d has from %s", i, tr.From)
				}
				if tr.Label == "" {
					t.Fatalf("transition %d has empty label", i)
				}
			}
		})
	}
}

func TestReopenOfferedOnlyFromIntermediateStates(t *testing.T) {
	for _, s := range Statuses {
		offered := false
		for _, tr := range AvailableTransitions(s) {
			if tr.Action == ActionReopen {
				offered = true
				if tr.To != StatusOpen {
					t.Fatalf("reopen from %s leads to %s", s, tr.To)
				}
			}
		}
		want := s == StatusInvestigating || s == StatusResolved
		if offered != want {
			t.Fatalf("reopen offered from %s = %v, want %v", s, offered, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusOpen, StatusInvestigating) {
		t.Fatalf("open -> investigating must be allowed")
	}
	if CanTransition(StatusOpen, StatusResolved) {
		t.Fatalf("open -> resolved must be rejected")
	}
	if CanTransition(StatusClosed, StatusOpen) {
		t.Fatalf("closed is terminal")
	}
	if CanTransition(StatusOpen, StatusOpen) {
		t.Fatalf("open -> open is not a transition")
	}
}

func TestTargetFor(t *testing.T) {
	to, ok := TargetFor(StatusResolved, ActionClose)
	if !ok || to != StatusClosed {
		t.Fatalf("unexpected target %q ok=%v", to, ok)
	}
	if _, ok := TargetFor(StatusOpen, ActionResolve); ok {
		t.Fatalf("resolve is not offered from open")
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Start_Investigation ")
	if err != nil || a != ActionStartInvestigation {
		t.Fatalf("unexpected parse result %q %v", a, err)
	}
	if _, err := ParseAction("escalate"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestTones(t *testing.T) {
	if StatusTone(Status("weird")) != ToneNeutral {
		t.Fatalf("unknown status must be neutral")
	}
	if StatusTone(StatusClosed) != ToneNeutral {
		t.Fatalf("closed must be neutral")
	}
	if SeverityTone(SeverityP1) != ToneCritical || SeverityTone("") != ToneNeutral {
		t.Fatalf("unexpected severity tones")
	}
	if LevelTone("warn") != ToneWarning || LevelTone("error") != ToneCritical || LevelTone("DEBUG") != ToneNeutral {
		t.Fatalf("unexpected level tones")
	}
}
