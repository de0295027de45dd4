// internal/infra/database/postgres_projet_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dotation_simulation_service/internal/domain/projet"
)

// Custom errors specific to projet repository
var ErrProjetNotFound = fmt.Errorf("projet not found")
var ErrDotationProjetNotFound = fmt.Errorf("dotation projet not found")
var ErrDuplicateDotationProjet = fmt.Errorf("duplicate dotation projet (projet_id, dotation)")

type PostgresProjetRepository struct {
	db *sql.DB
}

func NewPostgresProjetRepository(db *sql.DB) *PostgresProjetRepository {
	return &PostgresProjetRepository{db: db}
}

func (r *PostgresProjetRepository) GetProjetByID(ctx context.Context, id int64) (*projet.Projet, error) {
	query := `SELECT id, name, cout_total, montant_demande, montant_accorde, created_at
               FROM projets WHERE id = $1`
	p := projet.Projet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CoutTotal, &p.MontantDemande, &p.MontantAccorde, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjetNotFound
		}
		return nil, fmt.Errorf("error getting projet by ID: %w", err)
	}
	return &p, nil
}

// --- DotationProjet Methods ---

const dotationProjetColumns = `id, projet_id, dotation, status, assiette, created_at, updated_at`

func (r *PostgresProjetRepository) GetDotationProjetByID(ctx context.Context, id int64) (*projet.DotationProjet, error) {
	query := `SELECT ` + dotationProjetColumns + ` FROM dotation_projets WHERE id = $1`
	return r.scanDotationProjetRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresProjetRepository) GetDotationProjet(ctx context.Context, projetID int64, dotation projet.Dotation) (*projet.DotationProjet, error) {
	query := `SELECT ` + dotationProjetColumns + ` FROM dotation_projets WHERE projet_id = $1 AND dotation = $2`
	return r.scanDotationProjetRow(r.db.QueryRowContext(ctx, query, projetID, dotation))
}

func (r *PostgresProjetRepository) scanDotationProjetRow(row *sql.Row) (*projet.DotationProjet, error) {
	dp := projet.DotationProjet{}
	err := row.Scan(&dp.ID, &dp.ProjetID, &dp.Dotation, &dp.Status, &dp.Assiette, &dp.CreatedAt, &dp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDotationProjetNotFound
		}
		return nil, fmt.Errorf("error getting dotation projet: %w", err)
	}
	return &dp, nil
}

func (r *PostgresProjetRepository) ListDotationProjetsByProjet(ctx context.Context, projetID int64) ([]*projet.DotationProjet, error) {
	query := `SELECT ` + dotationProjetColumns + ` FROM dotation_projets WHERE projet_id = $1 ORDER BY dotation`
	rows, err := r.db.QueryContext(ctx, query, projetID)
	if err != nil {
		return nil, fmt.Errorf("error querying dotation projets by projet: %w", err)
	}
	defer rows.Close()
	return scanDotationProjets(rows)
}

func (r *PostgresProjetRepository) ListDotationProjetsByDotation(ctx context.Context, dotation projet.Dotation) ([]*projet.DotationProjet, error) {
	query := `SELECT ` + dotationProjetColumns + ` FROM dotation_projets WHERE dotation = $1 ORDER BY projet_id`
	rows, err := r.db.QueryContext(ctx, query, dotation)
	if err != nil {
		return nil, fmt.Errorf("error querying dotation projets by dotation: %w", err)
	}
	defer rows.Close()
	return scanDotationProjets(rows)
}

func scanDotationProjets(rows *sql.Rows) ([]*projet.DotationProjet, error) {
	projets := make([]*projet.DotationProjet, 0)
	for rows.Next() {
		dp := projet.DotationProjet{}
		if err := rows.Scan(&dp.ID, &dp.ProjetID, &dp.Dotation, &dp.Status, &dp.Assiette, &dp.CreatedAt, &dp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dotation projet row: %w", err)
		}
		projets = append(projets, &dp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dotation projet rows: %w", err)
	}
	return projets, nil
}

func (r *PostgresProjetRepository) CreateDotationProjet(ctx context.Context, dp *projet.DotationProjet) error {
	query := `INSERT INTO dotation_projets (projet_id, dotation, status, assiette)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, dp.ProjetID, dp.Dotation, dp.Status, dp.Assiette).
		Scan(&dp.ID, &dp.CreatedAt, &dp.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "projet_dotation_unique") {
			return ErrDuplicateDotationProjet
		}
		return fmt.Errorf("error creating dotation projet: %w", err)
	}
	return nil
}

func (r *PostgresProjetRepository) UpdateDotationProjet(ctx context.Context, dp *projet.DotationProjet) error {
	query := `UPDATE dotation_projets
               SET status = $1, assiette = $2, updated_at = NOW()
               WHERE id = $3
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, dp.Status, dp.Assiette, dp.ID).Scan(&dp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDotationProjetNotFound
		}
		return fmt.Errorf("error updating dotation projet: %w", err)
	}
	return nil
}

func (r *PostgresProjetRepository) DeleteDotationProjet(ctx context.Context, id int64) error {
	query := `DELETE FROM dotation_projets WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error deleting dotation projet: %w", err)
	}
	return nil
}
