package versions

import (
	"fmt"
	"strings"
)

// Status is the lifecycle label of a ledger entry. The ledger stores the
// display form ("In Progress", "Final").
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusFinal      Status = "Final"
)

// ParseStatus accepts both display and snake_case forms.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in progress", "in_progress":
		return StatusInProgress, nil
	case "final":
		return StatusFinal, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

var statusTransitions = map[Status][]Status{
	StatusInProgress: {StatusFinal},
	StatusFinal:      {StatusInProgress}, // reopening a finalized version
}

// CanTransition reports whether moving from s to next is a valid status
// change. A same-state transition is treated as a no-op and allowed.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
