// internal/app/dotation_service.go
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"dotation_simulation_service/internal/domain/confirm"
	"dotation_simulation_service/internal/domain/projet"
	"dotation_simulation_service/internal/domain/simulation"
)

// ErrEmptySelection marks a dotation update that would leave the projet
// without any envelope. The form submits it, the service rejects it.
var ErrEmptySelection = errors.New("a projet needs at least one dotation")

// DotationService applies confirmed changes of a projet's envelope selection.
type DotationService interface {
	// CurrentSelection snapshots the envelopes the projet is attached to.
	CurrentSelection(ctx context.Context, projetID int64) (confirm.Selection, error)
	// UpdateSelection attaches the projet to the added envelopes (seeding
	// their simulations) and detaches it from the removed ones (deleting
	// their simulation lines).
	UpdateSelection(ctx context.Context, projetID int64, newSel confirm.Selection) error
}

// DotationServiceImpl implements DotationService.
type DotationServiceImpl struct {
	projetRepo projet.Repository
	simRepo    simulation.Repository
	logger     logrus.FieldLogger
}

func NewDotationService(pr projet.Repository, sr simulation.Repository, logger logrus.FieldLogger) *DotationServiceImpl {
	return &DotationServiceImpl{projetRepo: pr, simRepo: sr, logger: logger}
}

func (s *DotationServiceImpl) CurrentSelection(ctx context.Context, projetID int64) (confirm.Selection, error) {
	dps, err := s.projetRepo.ListDotationProjetsByProjet(ctx, projetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dotation projets of projet %d: %w", projetID, err)
	}
	sel := make(confirm.Selection, len(dps))
	for _, dp := range dps {
		sel[dp.Dotation] = struct{}{}
	}
	return sel, nil
}

func (s *DotationServiceImpl) UpdateSelection(ctx context.Context, projetID int64, newSel confirm.Selection) error {
	if len(newSel) == 0 {
		return ErrEmptySelection
	}

	p, err := s.projetRepo.GetProjetByID(ctx, projetID)
	if err != nil {
		return fmt.Errorf("failed to get projet %d: %w", projetID, err)
	}

	dps, err := s.projetRepo.ListDotationProjetsByProjet(ctx, projetID)
	if err != nil {
		return fmt.Errorf("failed to list dotation projets of projet %d: %w", projetID, err)
	}
	initial := make(confirm.Selection, len(dps))
	byDotation := make(map[projet.Dotation]*projet.DotationProjet, len(dps))
	for _, dp := range dps {
		initial[dp.Dotation] = struct{}{}
		byDotation[dp.Dotation] = dp
	}

	for _, removed := range initial.Diff(newSel) {
		dp := byDotation[removed]
		if err := s.simRepo.DeleteSimulationProjetsByDotationProjet(ctx, dp.ID); err != nil {
			return fmt.Errorf("failed to delete simulation projets of dotation projet %d: %w", dp.ID, err)
		}
		if err := s.projetRepo.DeleteDotationProjet(ctx, dp.ID); err != nil {
			return fmt.Errorf("failed to delete dotation projet %d: %w", dp.ID, err)
		}
		s.logger.WithFields(logrus.Fields{"projet_id": projetID, "dotation": removed}).Info("Projet detached from dotation")
	}

	for _, added := range newSel.Diff(initial) {
		dp := &projet.DotationProjet{
			ProjetID: projetID,
			Dotation: added,
			Status:   projet.StatusProcessing,
		}
		if err := s.projetRepo.CreateDotationProjet(ctx, dp); err != nil {
			return fmt.Errorf("failed to create dotation projet (P:%d, %s): %w", projetID, added, err)
		}
		if err := s.seedSimulations(ctx, p, dp); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{"projet_id": projetID, "dotation": added}).Info("Projet attached to dotation")
	}

	return nil
}

// seedSimulations adds the new dotation projet to every simulation of its
// envelope, with the montant resolved from the dossier.
func (s *DotationServiceImpl) seedSimulations(ctx context.Context, p *projet.Projet, dp *projet.DotationProjet) error {
	sims, err := s.simRepo.ListSimulationsByDotation(ctx, dp.Dotation)
	if err != nil {
		return fmt.Errorf("failed to list simulations for %s: %w", dp.Dotation, err)
	}

	montant := p.InitialMontant()
	for _, sim := range sims {
		sp := &simulation.SimulationProjet{
			SimulationID:     sim.ID,
			DotationProjetID: dp.ID,
			Montant:          montant.Round(2),
			Taux:             computeTaux(montant, dp.AssietteOrCoutTotal(p)),
			Status:           simulation.StatusProcessing,
		}
		if err := s.simRepo.CreateSimulationProjet(ctx, sp); err != nil {
			return fmt.Errorf("failed to seed simulation projet (S:%d, DP:%d): %w", sim.ID, dp.ID, err)
		}
	}
	return nil
}
