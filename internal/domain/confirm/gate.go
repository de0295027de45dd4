// internal/domain/confirm/gate.go
package confirm

import (
	"github.com/sirupsen/logrus"

	"dotation_simulation_service/internal/domain/simulation"
)

// EventStatusConfirmed is the out-of-band event raised on a form to commit a
// status change through a partial update instead of a full submission.
const EventStatusConfirmed = "status-confirmed"

// Host is the form collaborator a UI adapter provides to the gates. Submit
// dispatches the form as declared; Reset reverts it to its pre-edit values;
// Focus returns focus to the triggering control after a cancellation.
type Host interface {
	Submit(formID string) error
	Reset(formID string) error
	Focus(controlID string) error
}

// TriggerHost is implemented by hosts that support out-of-band partial
// updates. When the host does not implement it, the gate falls back to a full
// form submission.
type TriggerHost interface {
	Trigger(formID, event string) error
}

// Transition is the ephemeral record of a requested status change. It is
// consumed either immediately or after user confirmation, never persisted.
type Transition struct {
	NewStatus      simulation.Status
	OriginalStatus simulation.Status
	FormID         string
	ControlID      string
}

// Gate interrupts impactful status changes with a confirmation dialog and
// commits the rest immediately. At most one transition is pending at a time;
// beginning a new one silently replaces the previous pending state.
type Gate struct {
	host    Host
	logger  logrus.FieldLogger
	pending *Transition
	dialog  *Dialog
}

func NewGate(host Host, logger logrus.FieldLogger) *Gate {
	return &Gate{host: host, logger: logger}
}

// Begin evaluates a requested transition. When no confirmation is needed the
// form is dispatched right away and Begin returns a nil dialog. Otherwise the
// transition becomes pending and the dialog to present is returned.
//
// A status with no dialog binding is logged and ignored: the control shows
// the new value but nothing is committed.
func (g *Gate) Begin(t Transition) (*Dialog, error) {
	if !simulation.EvaluateTransition(t.NewStatus, t.OriginalStatus) {
		return nil, g.commit(t)
	}

	dialog, ok := buildDialog(t)
	if !ok {
		g.logger.WithField("status", t.NewStatus).Warn("No modal for this status")
		return nil, nil
	}

	g.pending = &t
	g.dialog = dialog
	return dialog, nil
}

// Confirm submits the pending transition's form. Modal buttons are disabled
// first so a second click cannot submit twice. Without a pending transition
// this is a no-op.
func (g *Gate) Confirm() error {
	if g.pending == nil {
		return nil
	}
	g.dialog.ButtonsEnabled = false

	err := g.host.Submit(g.pending.FormID)
	g.pending = nil
	g.dialog = nil
	return err
}

// Cancel resets the pending form to its pre-edit values, returns focus to the
// triggering control and clears the pending state. Calling it again without
// an intervening Begin is a no-op.
func (g *Gate) Cancel() error {
	if g.pending == nil {
		return nil
	}
	t := g.pending
	g.pending = nil
	g.dialog = nil

	if err := g.host.Reset(t.FormID); err != nil {
		return err
	}
	return g.host.Focus(t.ControlID)
}

// Pending exposes the transition awaiting confirmation, if any.
func (g *Gate) Pending() *Transition {
	return g.pending
}

func (g *Gate) commit(t Transition) error {
	if trigger, ok := g.host.(TriggerHost); ok {
		return trigger.Trigger(t.FormID, EventStatusConfirmed)
	}
	return g.host.Submit(t.FormID)
}
