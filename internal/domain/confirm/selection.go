// internal/domain/confirm/selection.go
package confirm

import (
	"fmt"

	"dotation_simulation_service/internal/domain/projet"
)

// Selection is a duplicate-free, order-independent set of dotation envelopes
// read from the form's checkboxes.
type Selection map[projet.Dotation]struct{}

func NewSelection(dotations ...projet.Dotation) Selection {
	s := make(Selection, len(dotations))
	for _, d := range dotations {
		s[d] = struct{}{}
	}
	return s
}

// ParseSelection builds a selection from raw checkbox values.
func ParseSelection(raw []string) (Selection, error) {
	s := make(Selection, len(raw))
	for _, v := range raw {
		d, err := projet.ParseDotation(v)
		if err != nil {
			return nil, err
		}
		s[d] = struct{}{}
	}
	return s, nil
}

func (s Selection) Contains(d projet.Dotation) bool {
	_, ok := s[d]
	return ok
}

func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if !other.Contains(d) {
			return false
		}
	}
	return true
}

// Diff returns the envelopes of s absent from other, in DETR-then-DSIL order.
func (s Selection) Diff(other Selection) []projet.Dotation {
	var out []projet.Dotation
	for _, d := range []projet.Dotation{projet.DotationDETR, projet.DotationDSIL} {
		if s.Contains(d) && !other.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// Values lists the selection in DETR-then-DSIL order.
func (s Selection) Values() []projet.Dotation {
	var out []projet.Dotation
	for _, d := range []projet.Dotation{projet.DotationDETR, projet.DotationDSIL} {
		if s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// Dialog titles for a dotation-selection change.
const (
	TitleDoubleDotation       = "Double dotation"
	TitleDotationModification = "Modification de la dotation"
)

// SelectionDialog is the explanatory confirmation presented before a
// dotation-selection change is committed. Message may carry inline markup.
type SelectionDialog struct {
	Title   string
	Message string
}

// MustConfirmSelection decides whether changing the checked envelopes from
// initial to newSel requires an explanatory confirmation. An empty or
// unchanged effective selection submits silently.
func MustConfirmSelection(newSel, initial Selection) bool {
	if len(newSel) == 0 {
		return false
	}
	if len(newSel) == 1 && len(initial) == 1 && newSel.Equal(initial) {
		return false
	}
	if len(newSel) == 2 && len(initial) == 2 {
		return false
	}
	return true
}

// BuildSelectionDialog writes the confirmation title and message for a
// selection change, naming the envelopes added and removed.
func BuildSelectionDialog(newSel, initial Selection) *SelectionDialog {
	title := TitleDotationModification
	if len(newSel) == 2 {
		title = TitleDoubleDotation
	}
	return &SelectionDialog{Title: title, Message: selectionMessage(newSel, initial)}
}

func selectionMessage(newSel, initial Selection) string {
	if len(initial) == 2 && len(newSel) == 1 {
		removed := initial.Diff(newSel)[0]
		return fmt.Sprintf("<strong>Vous souhaitez modifier la dotation de financement choisie par le demandeur.</strong> Les enveloppes demandées étaient DETR et DSIL. Ce projet sera supprimé des simulations <strong>%s</strong>.", removed)
	}
	if len(newSel) == 2 {
		added := newSel.Diff(initial)
		if len(added) == 0 {
			return ""
		}
		return fmt.Sprintf("Ce projet sera aussi affiché dans les simulations %s.", added[0])
	}
	if len(newSel) == 1 && len(initial) == 1 {
		removed := initial.Values()[0]
		added := newSel.Values()[0]
		return fmt.Sprintf("<strong>Vous souhaitez modifier la dotation de financement choisie par le demandeur.</strong> L'enveloppe demandée était %s, la nouvelle enveloppe attribuée est %s. Ce projet sera ajouté dans vos simulations %s et sera supprimé des simulations %s.", removed, added, added, removed)
	}
	return ""
}

// SelectionGate applies the confirm-before-submit idea to the envelope
// checkboxes of a projet form. The initial selection is snapshotted when the
// gate is created and only discarded with it.
type SelectionGate struct {
	host    Host
	initial Selection
	pending *SelectionDialog
	formID  string
}

func NewSelectionGate(host Host, initial Selection) *SelectionGate {
	return &SelectionGate{host: host, initial: initial}
}

// Begin evaluates the current checkbox state. Changes that need no
// explanation are submitted right away and Begin returns a nil dialog.
func (g *SelectionGate) Begin(formID string, newSel Selection) (*SelectionDialog, error) {
	if !MustConfirmSelection(newSel, g.initial) {
		return nil, g.host.Submit(formID)
	}
	g.formID = formID
	g.pending = BuildSelectionDialog(newSel, g.initial)
	return g.pending, nil
}

// Confirm submits the associated form. No-op without a pending dialog.
func (g *SelectionGate) Confirm() error {
	if g.pending == nil {
		return nil
	}
	formID := g.formID
	g.pending = nil
	g.formID = ""
	return g.host.Submit(formID)
}

// Cancel reverts the checkboxes to the initial selection by resetting the
// form and closes the dialog. Idempotent.
func (g *SelectionGate) Cancel() error {
	if g.pending == nil {
		return nil
	}
	formID := g.formID
	g.pending = nil
	g.formID = ""
	return g.host.Reset(formID)
}
