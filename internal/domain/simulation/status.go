// internal/domain/simulation/status.go
package simulation

import "fmt"

// Status is the workflow state of a projet line inside a simulation.
type Status string

const (
	StatusAccepted              Status = "valid"
	StatusRefused               Status = "cancelled"
	StatusDismissed             Status = "dismissed"
	StatusProcessing            Status = "draft"
	StatusProvisionallyAccepted Status = "provisionally_accepted"
	StatusProvisionallyRefused  Status = "provisionally_refused"
)

// StatusesWithOtherSimulationImpact are the statuses whose adoption also changes
// the backing dotation projet, and through it every sibling simulation line.
var StatusesWithOtherSimulationImpact = []Status{
	StatusAccepted,
	StatusRefused,
	StatusDismissed,
}

// StatusesWithoutOtherSimulationImpact only touch the current simulation line.
// Entering one of them is still consequential when the line is leaving an
// impactful status, because the dotation projet has to be reset.
var StatusesWithoutOtherSimulationImpact = []Status{
	StatusProcessing,
	StatusProvisionallyAccepted,
	StatusProvisionallyRefused,
}

// ParseStatus validates a raw form value against the known statuses.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusAccepted, StatusRefused, StatusDismissed,
		StatusProcessing, StatusProvisionallyAccepted, StatusProvisionallyRefused:
		return s, nil
	}
	return "", fmt.Errorf("unknown simulation projet status: %q", raw)
}

// HasOtherSimulationImpact reports whether s belongs to the impactful class.
func (s Status) HasOtherSimulationImpact() bool {
	for _, impactful := range StatusesWithOtherSimulationImpact {
		if s == impactful {
			return true
		}
	}
	return false
}

// EvaluateTransition decides whether changing a line from originalStatus to
// newStatus must be confirmed by the user before it is committed.
//
// A transition into an impactful status always needs confirmation. A transition
// into a non-impactful status needs confirmation only when it undoes an
// impactful one. Everything else commits silently.
func EvaluateTransition(newStatus, originalStatus Status) bool {
	if newStatus.HasOtherSimulationImpact() {
		return true
	}
	if !newStatus.HasOtherSimulationImpact() && originalStatus.HasOtherSimulationImpact() {
		return isWithoutImpact(newStatus)
	}
	return false
}

func isWithoutImpact(s Status) bool {
	for _, v := range StatusesWithoutOtherSimulationImpact {
		if s == v {
			return true
		}
	}
	return false
}

// FrenchLabel returns the wording used in confirmation dialogs when referring
// to the status a line is leaving. Only impactful statuses are ever named
// there, so the other variants have no label.
func (s Status) FrenchLabel() (string, bool) {
	switch s {
	case StatusAccepted:
		return "validé", true
	case StatusRefused:
		return "refusé", true
	case StatusDismissed:
		return "classé sans suite", true
	}
	return "", false
}

// ModalID returns the identifier of the confirmation dialog bound to a target
// status. The bool mirrors FrenchLabel: an unknown status has no dialog.
func (s Status) ModalID() (string, bool) {
	switch s {
	case StatusAccepted:
		return "accept-confirmation-modal", true
	case StatusRefused:
		return "refuse-confirmation-modal", true
	case StatusProcessing:
		return "processing-confirmation-modal", true
	case StatusDismissed:
		return "dismiss-confirmation-modal", true
	case StatusProvisionallyAccepted:
		return "provisionally_accepted-confirmation-modal", true
	case StatusProvisionallyRefused:
		return "provisionally_refused-confirmation-modal", true
	}
	return "", false
}
