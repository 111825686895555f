package incidents

import (
	"fmt"
	"strings"
)

type Action string

const (
	ActionStartInvestigation Action = "start_investigation"
	ActionResolve            Action = "resolve"
	ActionClose              Action = "close"
	ActionReopen             Action = "reopen"
)

type Transition struct {
	Action Action `json:"action"`
	From   Status `json:"from"`
	To     Status `json:"to"`
	Label  string `json:"label"`
}

// Forward moves come first for each state; reopen is offered after them.
var transitionTable = []Transition{
	{Action: ActionStartInvestigation, From: StatusOpen, To: StatusInvestigating, Label: "Start Investigation"},
	{Action: ActionResolve, From: StatusInvestigating, To: StatusResolved, Label: "Mark as Resolved"},
	{Action: ActionClose, From: StatusResolved, To: StatusClosed, Label: "Close Incident"},
	{Action: ActionReopen, From: StatusInvestigating, To: StatusOpen, Label: "Reopen"},
	{Action: ActionReopen, From: StatusResolved, To: StatusOpen, Label: "Reopen"},
}

func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActionStartInvestigation, ActionResolve, ActionClose, ActionReopen:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// AvailableTransitions returns the moves offered from the given status.
// Unknown statuses and closed incidents get none.
func AvailableTransitions(from Status) []Transition {
	var out []Transition
	for _, tr := range transitionTable {
		if tr.From == from {
			out = append(out, tr)
		}
	}
	return out
}

func CanTransition(from, to Status) bool {
	for _, tr := range transitionTable {
		if tr.From == from && tr.To == to {
			return true
		}
	}
	return false
}

// TargetFor resolves an action to its next status for an incident currently in from.
func TargetFor(from Status, action Action) (Status, bool) {
	for _, tr := range transitionTable {
		if tr.From == from && tr.Action == action {
			return tr.To, true
		}
	}
	return "", false
}
