// internal/domain/confirm/dialog.go
package confirm

import "dotation_simulation_service/internal/domain/simulation"

// Dialog describes the confirmation modal to present for a pending status
// transition. The host adapter owns the actual rendering.
type Dialog struct {
	ModalID string

	// InitialStatusLabel is the French wording of the status being left. It
	// replaces the previous-status placeholder in the body of the modals
	// bound to non-impactful target statuses; empty otherwise.
	InitialStatusLabel string

	// ShowRemoveFromProgrammation keeps or drops the sentence announcing the
	// removal from the programmation. That sentence is inapplicable when the
	// line is leaving the dismissed status.
	ShowRemoveFromProgrammation bool

	// ButtonsEnabled is true on display; a prior interaction may have left
	// the action buttons disabled, so they are re-enabled before showing.
	ButtonsEnabled bool

	// MotivationFormID ties the modal's auxiliary motivation input to the
	// originating form so its value submits with it.
	MotivationFormID string
}

func buildDialog(t Transition) (*Dialog, bool) {
	modalID, ok := t.NewStatus.ModalID()
	if !ok {
		return nil, false
	}

	d := &Dialog{
		ModalID:          modalID,
		ButtonsEnabled:   true,
		MotivationFormID: t.FormID,
	}
	if !t.NewStatus.HasOtherSimulationImpact() {
		label, _ := t.OriginalStatus.FrenchLabel()
		d.InitialStatusLabel = label
		d.ShowRemoveFromProgrammation = t.OriginalStatus != simulation.StatusDismissed
	}
	return d, true
}
