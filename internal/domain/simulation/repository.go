// internal/domain/simulation/repository.go
package simulation

import (
	"context"

	"dotation_simulation_service/internal/domain/projet"
)

// Repository defines persistence operations for Simulation and SimulationProjet.
type Repository interface {
	// Simulation methods
	GetSimulationByID(ctx context.Context, id int64) (*Simulation, error)
	GetSimulationBySlug(ctx context.Context, slug string) (*Simulation, error)
	ListSimulations(ctx context.Context) ([]*Simulation, error)
	ListSimulationsByDotation(ctx context.Context, dotation projet.Dotation) ([]*Simulation, error)
	GetStatusSummary(ctx context.Context, simulationID int64) (StatusSummary, error)

	// SimulationProjet methods
	GetSimulationProjetByID(ctx context.Context, id int64) (*SimulationProjet, error)
	ListSimulationProjetsByDotationProjet(ctx context.Context, dotationProjetID int64) ([]*SimulationProjet, error)
	CreateSimulationProjet(ctx context.Context, sp *SimulationProjet) error
	UpdateSimulationProjet(ctx context.Context, sp *SimulationProjet) error
	// UpsertSimulationProjet creates the line or refreshes montant, taux and
	// status when a line for (simulation, dotation projet) already exists.
	UpsertSimulationProjet(ctx context.Context, sp *SimulationProjet) error
	DeleteSimulationProjetsByDotationProjet(ctx context.Context, dotationProjetID int64) error
}
