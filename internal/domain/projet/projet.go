// internal/domain/projet/projet.go
package projet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Dotation is a funding envelope a projet can be attached to. A projet holds
// one or two of them simultaneously.
type Dotation string

const (
	DotationDETR Dotation = "DETR"
	DotationDSIL Dotation = "DSIL"
)

// ParseDotation validates a raw checkbox value.
func ParseDotation(raw string) (Dotation, error) {
	switch Dotation(raw) {
	case DotationDETR:
		return DotationDETR, nil
	case DotationDSIL:
		return DotationDSIL, nil
	}
	return "", fmt.Errorf("unknown dotation: %q", raw)
}

// Status is the instruction state of a dotation projet. Unlike simulation
// lines, a dotation projet has no provisional statuses: those exist only
// inside simulations.
type Status string

const (
	StatusProcessing Status = "draft"
	StatusAccepted   Status = "valid"
	StatusRefused    Status = "cancelled"
	StatusDismissed  Status = "dismissed"
)

// Projet is a funding request imported from the demandeur's dossier.
type Projet struct {
	ID             int64
	Name           string
	CoutTotal      decimal.Decimal
	MontantDemande decimal.NullDecimal
	MontantAccorde decimal.NullDecimal
	CreatedAt      time.Time
}

// InitialMontant resolves the montant to seed a new simulation line with: the
// amount granted in the dossier annotations when present, else the amount
// requested, else zero.
func (p *Projet) InitialMontant() decimal.Decimal {
	if p.MontantAccorde.Valid {
		return p.MontantAccorde.Decimal
	}
	if p.MontantDemande.Valid {
		return p.MontantDemande.Decimal
	}
	return decimal.Zero
}

// DotationProjet attaches a projet to one envelope and carries the instruction
// state of the projet for that envelope.
type DotationProjet struct {
	ID        int64
	ProjetID  int64
	Dotation  Dotation
	Status    Status
	Assiette  decimal.NullDecimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssietteOrCoutTotal is the eligible cost base a subsidy rate applies to: the
// assiette fixed during instruction when set, else the projet's total cost.
func (dp *DotationProjet) AssietteOrCoutTotal(p *Projet) decimal.Decimal {
	if dp.Assiette.Valid {
		return dp.Assiette.Decimal
	}
	return p.CoutTotal
}
