// internal/domain/numeric/reconcile.go
package numeric

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Fields holds the display values of the three bound inputs of a subsidy
// form: the eligible cost base (assiette), the subsidy amount (montant) and
// the subsidy rate in percent (taux).
type Fields struct {
	Assiette string
	Montant  string
	Taux     string
}

// Reconciler keeps montant = assiette x taux / 100 consistent while the user
// edits one field at a time. Each edit recomputes exactly one of the other two
// fields, never both, so repeated edits cannot oscillate.
//
// The reconciliation baseline (the "total eligible" cost) is the assiette when
// it holds a value, else an externally supplied total cost figure. It is
// re-derived from the live assiette on every assiette edit.
type Reconciler struct {
	coutTotal     decimal.Decimal
	totalEligible decimal.Decimal
}

// NewReconciler resolves the initial baseline from the assiette field,
// falling back to the total cost figure rendered by the server.
func NewReconciler(f Fields, coutTotal string) *Reconciler {
	r := &Reconciler{}
	if ct, err := Parse(coutTotal); err == nil {
		r.coutTotal = ct
	}
	if a, err := Parse(f.Assiette); err == nil {
		r.totalEligible = a
	} else {
		r.totalEligible = r.coutTotal
	}
	return r
}

// TotalEligible exposes the current baseline.
func (r *Reconciler) TotalEligible() decimal.Decimal {
	return r.totalEligible
}

// OnAssietteInput handles an edit of the assiette field. A parseable value
// becomes the new baseline and the taux is re-derived from the montant. An
// unparseable value reverts the baseline to the total cost figure and the
// montant-derived recompute path runs instead.
func (r *Reconciler) OnAssietteInput(f *Fields) {
	assiette, errAssiette := Parse(f.Assiette)
	if errAssiette == nil {
		r.totalEligible = assiette
	} else {
		r.totalEligible = r.coutTotal
		r.OnMontantInput(f)
	}
	montant, errMontant := Parse(f.Montant)
	if errAssiette == nil && errMontant == nil && !assiette.IsZero() {
		f.Taux = FormatTaux(montant.Div(assiette).Mul(hundred))
	}
}

// OnMontantInput recomputes the taux from the edited montant and the baseline.
func (r *Reconciler) OnMontantInput(f *Fields) {
	montant, err := Parse(f.Montant)
	if err != nil || r.totalEligible.IsZero() {
		return
	}
	f.Taux = FormatTaux(montant.Div(r.totalEligible).Mul(hundred))
}

// OnTauxInput recomputes the montant from the edited taux and the baseline.
func (r *Reconciler) OnTauxInput(f *Fields) {
	taux, err := Parse(f.Taux)
	if err != nil {
		return
	}
	f.Montant = FormatMontant(taux.Div(hundred).Mul(r.totalEligible))
}

// FormatFields applies display formatting to every field, as done on connect
// and on blur. Unparseable values are blanked.
func (r *Reconciler) FormatFields(f *Fields) {
	f.Assiette = reformat(f.Assiette, FormatMontant)
	f.Montant = reformat(f.Montant, FormatMontant)
	f.Taux = reformat(f.Taux, FormatTaux)
}

// NormalizeForSubmit strips display formatting from every field right before
// the hosting form submits.
func NormalizeForSubmit(f *Fields) {
	f.Assiette = Normalize(f.Assiette)
	f.Montant = Normalize(f.Montant)
	f.Taux = Normalize(f.Taux)
}

func reformat(raw string, format func(decimal.Decimal) string) string {
	d, err := Parse(raw)
	if err != nil {
		return ""
	}
	return format(d)
}
