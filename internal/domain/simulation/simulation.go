// internal/domain/simulation/simulation.go
package simulation

import (
	"time"

	"github.com/shopspring/decimal"

	"dotation_simulation_service/internal/domain/projet"
)

// Simulation is a working allocation scenario scoped to one dotation envelope.
// Projets are assigned a provisional status inside it before becoming part of
// the final programmation.
type Simulation struct {
	ID        int64
	Title     string
	Slug      string
	Dotation  projet.Dotation
	CreatedAt time.Time
}

// SimulationProjet is one projet line inside a simulation: the montant and
// taux envisaged for the projet, plus its workflow status.
type SimulationProjet struct {
	ID               int64
	SimulationID     int64
	DotationProjetID int64
	Montant          decimal.Decimal
	Taux             decimal.Decimal
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusSummary counts the lines of a simulation per status, used on the
// simulation detail view.
type StatusSummary map[Status]int
