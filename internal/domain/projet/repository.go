// internal/domain/projet/repository.go
package projet

import "context"

// Repository defines persistence operations for Projet and DotationProjet.
type Repository interface {
	GetProjetByID(ctx context.Context, id int64) (*Projet, error)

	GetDotationProjetByID(ctx context.Context, id int64) (*DotationProjet, error)
	GetDotationProjet(ctx context.Context, projetID int64, dotation Dotation) (*DotationProjet, error)
	ListDotationProjetsByProjet(ctx context.Context, projetID int64) ([]*DotationProjet, error)
	ListDotationProjetsByDotation(ctx context.Context, dotation Dotation) ([]*DotationProjet, error)
	CreateDotationProjet(ctx context.Context, dp *DotationProjet) error
	UpdateDotationProjet(ctx context.Context, dp *DotationProjet) error
	DeleteDotationProjet(ctx context.Context, id int64) error
}
