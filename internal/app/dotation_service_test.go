package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotation_simulation_service/internal/domain/confirm"
	"dotation_simulation_service/internal/domain/projet"
	"dotation_simulation_service/internal/domain/simulation"
)

// newSelectionFixture wires a projet attached to DETR only, with one
// simulation per envelope.
func newSelectionFixture(t *testing.T) (*fakeSimulationRepo, *fakeProjetRepo, *DotationServiceImpl) {
	t.Helper()

	simRepo := newFakeSimulationRepo()
	projetRepo := newFakeProjetRepo()

	projetRepo.addProjet(projet.Projet{
		ID:             1,
		Name:           "Réfection de la voirie",
		CoutTotal:      decimal.NewFromInt(2000),
		MontantDemande: decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true},
	})
	projetRepo.addDotationProjet(projet.DotationProjet{ID: 10, ProjetID: 1, Dotation: projet.DotationDETR, Status: projet.StatusProcessing})

	simRepo.addSimulation(simulation.Simulation{ID: 100, Slug: "detr-2026", Dotation: projet.DotationDETR})
	simRepo.addSimulation(simulation.Simulation{ID: 101, Slug: "dsil-2026", Dotation: projet.DotationDSIL})
	simRepo.addSimulationProjet(simulation.SimulationProjet{
		ID: 1000, SimulationID: 100, DotationProjetID: 10,
		Montant: decimal.NewFromInt(500), Taux: decimal.NewFromInt(25),
		Status: simulation.StatusProcessing,
	})

	svc := NewDotationService(projetRepo, simRepo, testLogger())
	return simRepo, projetRepo, svc
}

func TestCurrentSelection(t *testing.T) {
	_, _, svc := newSelectionFixture(t)

	sel, err := svc.CurrentSelection(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, sel.Equal(confirm.NewSelection(projet.DotationDETR)))
}

func TestUpdateSelection_EmptyIsRejected(t *testing.T) {
	_, projetRepo, svc := newSelectionFixture(t)

	err := svc.UpdateSelection(context.Background(), 1, confirm.NewSelection())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySelection))
	assert.Len(t, projetRepo.dps, 1)
}

func TestUpdateSelection_AddEnvelopeSeedsItsSimulations(t *testing.T) {
	simRepo, projetRepo, svc := newSelectionFixture(t)

	err := svc.UpdateSelection(context.Background(), 1, confirm.NewSelection(projet.DotationDETR, projet.DotationDSIL))
	require.NoError(t, err)

	dp, err := projetRepo.GetDotationProjet(context.Background(), 1, projet.DotationDSIL)
	require.NoError(t, err)
	assert.Equal(t, projet.StatusProcessing, dp.Status)

	// The existing DETR line stays and one DSIL line was seeded.
	require.Len(t, simRepo.sps, 2)
	seeded, err := simRepo.ListSimulationProjetsByDotationProjet(context.Background(), dp.ID)
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.Equal(t, int64(101), seeded[0].SimulationID)
	assert.Equal(t, simulation.StatusProcessing, seeded[0].Status)
	// Montant from the dossier, taux over the cout total.
	assert.True(t, seeded[0].Montant.Equal(decimal.NewFromInt(500)), "montant: %s", seeded[0].Montant)
	assert.True(t, seeded[0].Taux.Equal(decimal.NewFromInt(25)), "taux: %s", seeded[0].Taux)
}

func TestUpdateSelection_RemoveEnvelopeDeletesItsLines(t *testing.T) {
	simRepo, projetRepo, svc := newSelectionFixture(t)
	require.NoError(t, svc.UpdateSelection(context.Background(), 1, confirm.NewSelection(projet.DotationDETR, projet.DotationDSIL)))

	err := svc.UpdateSelection(context.Background(), 1, confirm.NewSelection(projet.DotationDSIL))
	require.NoError(t, err)

	_, err = projetRepo.GetDotationProjet(context.Background(), 1, projet.DotationDETR)
	assert.Error(t, err)

	for _, sp := range simRepo.sps {
		assert.NotEqual(t, int64(10), sp.DotationProjetID, "DETR lines must be gone")
	}
	require.Len(t, simRepo.sps, 1)
}

func TestUpdateSelection_UnchangedSelectionTouchesNothing(t *testing.T) {
	simRepo, projetRepo, svc := newSelectionFixture(t)

	err := svc.UpdateSelection(context.Background(), 1, confirm.NewSelection(projet.DotationDETR))
	require.NoError(t, err)
	assert.Len(t, projetRepo.dps, 1)
	assert.Len(t, simRepo.sps, 1)
}
