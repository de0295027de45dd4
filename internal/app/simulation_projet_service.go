// internal/app/simulation_projet_service.go
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"dotation_simulation_service/internal/domain/notify"
	"dotation_simulation_service/internal/domain/numeric"
	"dotation_simulation_service/internal/domain/projet"
	"dotation_simulation_service/internal/domain/simulation"
)

// ErrInvalidNumericInput marks montant/taux/assiette form values that do not
// parse as French-formatted numbers. Host adapters answer these with HTTP 400.
var ErrInvalidNumericInput = errors.New("invalid numeric input")

// ErrInvalidStatus marks a status value outside the known workflow states.
var ErrInvalidStatus = errors.New("invalid status")

var hundred = decimal.NewFromInt(100)

// SimulationProjetService defines the operations a host adapter invokes once
// a status change or numeric edit has been committed by the user.
type SimulationProjetService interface {
	// UpdateStatus applies a committed status transition, including the
	// propagation to the backing dotation projet and its sibling simulation
	// lines when the transition is impactful.
	UpdateStatus(ctx context.Context, simulationProjetID int64, newStatus simulation.Status) (*simulation.SimulationProjet, error)
	// UpdateTaux and UpdateMontant accept French-formatted input and keep the
	// montant/taux pair consistent against the assiette.
	UpdateTaux(ctx context.Context, simulationProjetID int64, rawTaux string) (*simulation.SimulationProjet, error)
	UpdateMontant(ctx context.Context, simulationProjetID int64, rawMontant string) (*simulation.SimulationProjet, error)
	// UpdateAssiette changes the eligible cost base of the backing dotation
	// projet and re-derives the taux of the line. An empty value clears the
	// assiette back to the projet's total cost.
	UpdateAssiette(ctx context.Context, simulationProjetID int64, rawAssiette string) (*simulation.SimulationProjet, error)
	// StatusSummary counts the lines of a simulation per status.
	StatusSummary(ctx context.Context, slug string) (simulation.StatusSummary, error)
	// RefreshAllSimulations reseeds every simulation from the dotation
	// projets of its envelope.
	RefreshAllSimulations(ctx context.Context) error
}

// SimulationProjetServiceImpl implements SimulationProjetService.
type SimulationProjetServiceImpl struct {
	simRepo     simulation.Repository
	projetRepo  projet.Repository
	notifier    notify.Client
	logger      logrus.FieldLogger
	adminChatID int64
}

func NewSimulationProjetService(
	sr simulation.Repository,
	pr projet.Repository,
	nc notify.Client,
	logger logrus.FieldLogger,
	adminChatID int64,
) *SimulationProjetServiceImpl {
	return &SimulationProjetServiceImpl{
		simRepo:     sr,
		projetRepo:  pr,
		notifier:    nc,
		logger:      logger,
		adminChatID: adminChatID,
	}
}

func (s *SimulationProjetServiceImpl) UpdateStatus(ctx context.Context, simulationProjetID int64, newStatus simulation.Status) (*simulation.SimulationProjet, error) {
	sp, err := s.simRepo.GetSimulationProjetByID(ctx, simulationProjetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation projet %d: %w", simulationProjetID, err)
	}

	if sp.Status == newStatus {
		s.logger.WithField("simulation_projet_id", sp.ID).Infof("Status already %s. No action needed.", newStatus)
		return sp, nil
	}

	originalStatus := sp.Status
	switch newStatus {
	case simulation.StatusAccepted:
		sp, err = s.applyDotationStatus(ctx, sp, projet.StatusAccepted, true)
	case simulation.StatusRefused:
		sp, err = s.applyDotationStatus(ctx, sp, projet.StatusRefused, false)
	case simulation.StatusDismissed:
		sp, err = s.applyDotationStatus(ctx, sp, projet.StatusDismissed, false)
	case simulation.StatusProcessing, simulation.StatusProvisionallyAccepted, simulation.StatusProvisionallyRefused:
		sp, err = s.setBackFromImpactfulStatus(ctx, sp, newStatus)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"simulation_projet_id": sp.ID,
		"from":                 originalStatus,
		"to":                   newStatus,
	}).Info("Simulation projet status updated")

	if newStatus.HasOtherSimulationImpact() || originalStatus.HasOtherSimulationImpact() {
		s.notifyAdmin(sp, originalStatus, newStatus)
	}
	return sp, nil
}

// applyDotationStatus commits an impactful status: the backing dotation
// projet takes the new state and every sibling simulation line is refreshed
// from it. Accepting also carries the montant and taux of the accepted line.
func (s *SimulationProjetServiceImpl) applyDotationStatus(ctx context.Context, sp *simulation.SimulationProjet, dpStatus projet.Status, propagateMontant bool) (*simulation.SimulationProjet, error) {
	dp, err := s.projetRepo.GetDotationProjetByID(ctx, sp.DotationProjetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dotation projet %d: %w", sp.DotationProjetID, err)
	}

	dp.Status = dpStatus
	if err := s.projetRepo.UpdateDotationProjet(ctx, dp); err != nil {
		return nil, fmt.Errorf("failed to update dotation projet %d: %w", dp.ID, err)
	}

	siblings, err := s.simRepo.ListSimulationProjetsByDotationProjet(ctx, sp.DotationProjetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulation projets of dotation projet %d: %w", sp.DotationProjetID, err)
	}
	for _, sib := range siblings {
		sib.Status = simulationStatusFromDotation(dpStatus)
		if propagateMontant {
			sib.Montant = sp.Montant
			sib.Taux = sp.Taux
		}
		if err := s.simRepo.UpdateSimulationProjet(ctx, sib); err != nil {
			return nil, fmt.Errorf("failed to update sibling simulation projet %d: %w", sib.ID, err)
		}
		if sib.ID == sp.ID {
			sp = sib
		}
	}
	return sp, nil
}

// setBackFromImpactfulStatus handles transitions into the non-impactful
// statuses. Leaving an impactful status first resets the dotation projet and
// its other simulation lines to processing; the targeted line then takes the
// requested status.
func (s *SimulationProjetServiceImpl) setBackFromImpactfulStatus(ctx context.Context, sp *simulation.SimulationProjet, newStatus simulation.Status) (*simulation.SimulationProjet, error) {
	if sp.Status.HasOtherSimulationImpact() {
		var err error
		sp, err = s.applyDotationStatus(ctx, sp, projet.StatusProcessing, false)
		if err != nil {
			return nil, err
		}
	}

	sp.Status = newStatus
	if err := s.simRepo.UpdateSimulationProjet(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to update simulation projet %d: %w", sp.ID, err)
	}
	return sp, nil
}

func simulationStatusFromDotation(status projet.Status) simulation.Status {
	switch status {
	case projet.StatusAccepted:
		return simulation.StatusAccepted
	case projet.StatusRefused:
		return simulation.StatusRefused
	case projet.StatusDismissed:
		return simulation.StatusDismissed
	default:
		return simulation.StatusProcessing
	}
}

func (s *SimulationProjetServiceImpl) notifyAdmin(sp *simulation.SimulationProjet, from, to simulation.Status) {
	if s.adminChatID == 0 {
		return
	}
	text := fmt.Sprintf("Le statut du projet de la ligne n° %d est passé de « %s » à « %s ». Les autres simulations de ce projet ont été mises à jour.", sp.ID, from, to)
	if err := s.notifier.Send(s.adminChatID, text); err != nil {
		s.logger.WithError(err).Warn("Failed to send admin alert for status change")
	}
}

func (s *SimulationProjetServiceImpl) UpdateTaux(ctx context.Context, simulationProjetID int64, rawTaux string) (*simulation.SimulationProjet, error) {
	sp, dp, p, err := s.loadLine(ctx, simulationProjetID)
	if err != nil {
		return nil, err
	}

	taux, err := numeric.Parse(rawTaux)
	if err != nil {
		return nil, fmt.Errorf("%w: taux %q", ErrInvalidNumericInput, rawTaux)
	}

	assiette := dp.AssietteOrCoutTotal(p)
	montant := decimal.Zero
	if !assiette.IsZero() {
		montant = assiette.Mul(taux).Div(hundred).Round(2)
	}

	sp.Taux = taux.Round(3)
	sp.Montant = montant
	return s.saveLine(ctx, sp)
}

func (s *SimulationProjetServiceImpl) UpdateMontant(ctx context.Context, simulationProjetID int64, rawMontant string) (*simulation.SimulationProjet, error) {
	sp, dp, p, err := s.loadLine(ctx, simulationProjetID)
	if err != nil {
		return nil, err
	}

	montant, err := numeric.Parse(rawMontant)
	if err != nil {
		return nil, fmt.Errorf("%w: montant %q", ErrInvalidNumericInput, rawMontant)
	}

	sp.Montant = montant.Round(2)
	sp.Taux = computeTaux(montant, dp.AssietteOrCoutTotal(p))
	return s.saveLine(ctx, sp)
}

func (s *SimulationProjetServiceImpl) UpdateAssiette(ctx context.Context, simulationProjetID int64, rawAssiette string) (*simulation.SimulationProjet, error) {
	sp, dp, p, err := s.loadLine(ctx, simulationProjetID)
	if err != nil {
		return nil, err
	}

	if numeric.Normalize(rawAssiette) == "" {
		dp.Assiette = decimal.NullDecimal{}
	} else {
		assiette, err := numeric.Parse(rawAssiette)
		if err != nil {
			return nil, fmt.Errorf("%w: assiette %q", ErrInvalidNumericInput, rawAssiette)
		}
		dp.Assiette = decimal.NullDecimal{Decimal: assiette.Round(2), Valid: true}
	}
	if err := s.projetRepo.UpdateDotationProjet(ctx, dp); err != nil {
		return nil, fmt.Errorf("failed to update dotation projet %d: %w", dp.ID, err)
	}

	sp.Taux = computeTaux(sp.Montant, dp.AssietteOrCoutTotal(p))
	return s.saveLine(ctx, sp)
}

// computeTaux derives the percentage of the assiette the montant represents,
// rounded to the displayed precision. A zero assiette yields a zero taux.
func computeTaux(montant, assiette decimal.Decimal) decimal.Decimal {
	if assiette.IsZero() {
		return decimal.Zero
	}
	return montant.Div(assiette).Mul(hundred).Round(3)
}

func (s *SimulationProjetServiceImpl) loadLine(ctx context.Context, simulationProjetID int64) (*simulation.SimulationProjet, *projet.DotationProjet, *projet.Projet, error) {
	sp, err := s.simRepo.GetSimulationProjetByID(ctx, simulationProjetID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get simulation projet %d: %w", simulationProjetID, err)
	}
	dp, err := s.projetRepo.GetDotationProjetByID(ctx, sp.DotationProjetID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get dotation projet %d: %w", sp.DotationProjetID, err)
	}
	p, err := s.projetRepo.GetProjetByID(ctx, dp.ProjetID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get projet %d: %w", dp.ProjetID, err)
	}
	return sp, dp, p, nil
}

func (s *SimulationProjetServiceImpl) saveLine(ctx context.Context, sp *simulation.SimulationProjet) (*simulation.SimulationProjet, error) {
	if err := s.simRepo.UpdateSimulationProjet(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to update simulation projet %d: %w", sp.ID, err)
	}
	// An accepted line carries its montant to the dotation projet's other
	// simulations, so a numeric edit on it re-propagates.
	if sp.Status == simulation.StatusAccepted {
		return s.applyDotationStatus(ctx, sp, projet.StatusAccepted, true)
	}
	return sp, nil
}

func (s *SimulationProjetServiceImpl) StatusSummary(ctx context.Context, slug string) (simulation.StatusSummary, error) {
	sim, err := s.simRepo.GetSimulationBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation %q: %w", slug, err)
	}

	counts, err := s.simRepo.GetStatusSummary(ctx, sim.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status summary for simulation %d: %w", sim.ID, err)
	}

	summary := simulation.StatusSummary{
		simulation.StatusProcessing:            0,
		simulation.StatusAccepted:              0,
		simulation.StatusRefused:               0,
		simulation.StatusDismissed:             0,
		simulation.StatusProvisionallyAccepted: 0,
		simulation.StatusProvisionallyRefused:  0,
	}
	for status, count := range counts {
		summary[status] = count
	}
	return summary, nil
}

// RefreshAllSimulations reseeds every simulation with the dotation projets of
// its envelope, creating missing lines and refreshing existing ones. Run
// nightly by the scheduler.
func (s *SimulationProjetServiceImpl) RefreshAllSimulations(ctx context.Context) error {
	sims, err := s.simRepo.ListSimulations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list simulations: %w", err)
	}

	for _, sim := range sims {
		if err := s.refreshSimulation(ctx, sim); err != nil {
			s.logger.WithError(err).WithField("simulation_id", sim.ID).Error("Failed to refresh simulation")
		}
	}
	return nil
}

func (s *SimulationProjetServiceImpl) refreshSimulation(ctx context.Context, sim *simulation.Simulation) error {
	dps, err := s.projetRepo.ListDotationProjetsByDotation(ctx, sim.Dotation)
	if err != nil {
		return fmt.Errorf("failed to list dotation projets for %s: %w", sim.Dotation, err)
	}

	refreshed := 0
	for _, dp := range dps {
		p, err := s.projetRepo.GetProjetByID(ctx, dp.ProjetID)
		if err != nil {
			s.logger.WithError(err).WithField("projet_id", dp.ProjetID).Warn("Skipping dotation projet with missing projet")
			continue
		}

		montant := p.InitialMontant()
		sp := &simulation.SimulationProjet{
			SimulationID:     sim.ID,
			DotationProjetID: dp.ID,
			Montant:          montant.Round(2),
			Taux:             computeTaux(montant, dp.AssietteOrCoutTotal(p)),
			Status:           simulationStatusFromDotation(dp.Status),
		}
		if err := s.simRepo.UpsertSimulationProjet(ctx, sp); err != nil {
			return fmt.Errorf("failed to upsert simulation projet (S:%d, DP:%d): %w", sim.ID, dp.ID, err)
		}
		refreshed++
	}

	s.logger.WithFields(logrus.Fields{"simulation_id": sim.ID, "lines": refreshed}).Info("Simulation refreshed")
	return nil
}
