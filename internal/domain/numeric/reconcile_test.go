package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1 234,50", "1234.5"},
		{"1 234,50", "1234.5"},
		{"1 234,50", "1234.5"},
		{"250", "250"},
		{"0,125", "0.125"},
		{"-12,00", "-12"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.raw)
		require.NoError(t, err, "parsing %q", tt.raw)
		assert.Equal(t, tt.want, d.String())
	}

	for _, raw := range []string{"", "abc", "12,3,4"} {
		_, err := Parse(raw)
		assert.Error(t, err, "parsing %q", raw)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100,00", FormatMontant(decimal.NewFromInt(100)))
	assert.Equal(t, "1 234,50", FormatMontant(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "1 000,00", FormatMontant(decimal.NewFromInt(1000)))
	assert.Equal(t, "-1 234,57", FormatMontant(decimal.NewFromFloat(-1234.567)))
	assert.Equal(t, "25,000", FormatTaux(decimal.NewFromInt(25)))
	assert.Equal(t, "33,333", FormatTaux(decimal.NewFromFloat(33.3333)))
	assert.Equal(t, "0,50", FormatMontant(decimal.NewFromFloat(0.5)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1234.50", Normalize("1 234,50"))
	assert.Equal(t, "25.000", Normalize("25,000"))
	assert.Equal(t, "", Normalize("  "))
}

func TestReconciler_RoundTrip(t *testing.T) {
	f := Fields{Assiette: "1000,00"}
	r := NewReconciler(f, "")

	// Editing the montant derives the taux from the baseline.
	f.Montant = "250,00"
	r.OnMontantInput(&f)
	assert.Equal(t, "25,000", f.Taux)

	// Editing the taux derives the montant back, base untouched.
	f.Taux = "10,000"
	r.OnTauxInput(&f)
	assert.Equal(t, "100,00", f.Montant)
	assert.Equal(t, "1000,00", f.Assiette)
}

func TestReconciler_AssietteEditRebasesAndRecomputesTaux(t *testing.T) {
	f := Fields{Assiette: "1000,00", Montant: "250,00"}
	r := NewReconciler(f, "4000")

	f.Assiette = "500,00"
	r.OnAssietteInput(&f)
	assert.Equal(t, "50,000", f.Taux)
	assert.True(t, r.TotalEligible().Equal(decimal.NewFromInt(500)))
}

func TestReconciler_UnparseableAssietteFallsBackToCoutTotal(t *testing.T) {
	f := Fields{Assiette: "1000,00", Montant: "250,00"}
	r := NewReconciler(f, "4000")

	f.Assiette = ""
	r.OnAssietteInput(&f)
	// Baseline reverts to the external total cost and the montant path runs.
	assert.True(t, r.TotalEligible().Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, "6,250", f.Taux)
}

func TestReconciler_UnparseableEditLeavesDependentFieldsUnchanged(t *testing.T) {
	f := Fields{Assiette: "1000,00", Montant: "250,00", Taux: "25,000"}
	r := NewReconciler(f, "")

	f.Montant = "abc"
	r.OnMontantInput(&f)
	assert.Equal(t, "25,000", f.Taux)

	f.Taux = ""
	r.OnTauxInput(&f)
	assert.Equal(t, "abc", f.Montant)
}

func TestReconciler_BaselineFallsBackWhenAssietteEmptyAtConnect(t *testing.T) {
	r := NewReconciler(Fields{}, "2 000,00")
	assert.True(t, r.TotalEligible().Equal(decimal.NewFromInt(2000)))

	f := Fields{Montant: "500"}
	r.OnMontantInput(&f)
	assert.Equal(t, "25,000", f.Taux)
}

func TestReconciler_InvariantHoldsUnderSingleFieldEdits(t *testing.T) {
	f := Fields{Assiette: "1 234,56"}
	r := NewReconciler(f, "")

	edits := []func(){
		func() { f.Montant = "617,28"; r.OnMontantInput(&f) },
		func() { f.Taux = "25,000"; r.OnTauxInput(&f) },
		func() { f.Assiette = "2000"; r.OnAssietteInput(&f) },
		func() { f.Taux = "33,333"; r.OnTauxInput(&f) },
	}
	for _, edit := range edits {
		edit()

		assiette, err := Parse(f.Assiette)
		require.NoError(t, err)
		montant, err := Parse(f.Montant)
		require.NoError(t, err)
		taux, err := Parse(f.Taux)
		require.NoError(t, err)

		// montant = assiette x taux / 100, within the displayed precision.
		derived := assiette.Mul(taux).Div(decimal.NewFromInt(100))
		diff := derived.Sub(montant).Abs()
		limit := assiette.Mul(decimal.NewFromFloat(0.000005)).Add(decimal.NewFromFloat(0.005))
		assert.True(t, diff.LessThanOrEqual(limit),
			"invariant violated: assiette=%s montant=%s taux=%s (diff %s)", f.Assiette, f.Montant, f.Taux, diff)
	}
}

func TestFormatFieldsAndNormalizeForSubmit(t *testing.T) {
	f := Fields{Assiette: "1234,5", Montant: "100", Taux: "25"}
	r := NewReconciler(f, "")

	r.FormatFields(&f)
	assert.Equal(t, "1 234,50", f.Assiette)
	assert.Equal(t, "100,00", f.Montant)
	assert.Equal(t, "25,000", f.Taux)

	NormalizeForSubmit(&f)
	assert.Equal(t, "1234.50", f.Assiette)
	assert.Equal(t, "100.00", f.Montant)
	assert.Equal(t, "25.000", f.Taux)

	blank := Fields{Assiette: "abc"}
	r.FormatFields(&blank)
	assert.Equal(t, "", blank.Assiette)
}
