// internal/infra/database/postgres_simulation_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dotation_simulation_service/internal/domain/projet"
	"dotation_simulation_service/internal/domain/simulation"
)

// Custom errors specific to simulation repository
var ErrSimulationNotFound = fmt.Errorf("simulation not found")
var ErrSimulationProjetNotFound = fmt.Errorf("simulation projet not found")
var ErrDuplicateSimulationProjet = fmt.Errorf("duplicate simulation projet (simulation_id, dotation_projet_id)")

type PostgresSimulationRepository struct {
	db *sql.DB
}

func NewPostgresSimulationRepository(db *sql.DB) *PostgresSimulationRepository {
	return &PostgresSimulationRepository{db: db}
}

// --- Simulation Methods ---

func (r *PostgresSimulationRepository) GetSimulationByID(ctx context.Context, id int64) (*simulation.Simulation, error) {
	query := `SELECT id, title, slug, dotation, created_at FROM simulations WHERE id = $1`
	return r.scanSimulationRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresSimulationRepository) GetSimulationBySlug(ctx context.Context, slug string) (*simulation.Simulation, error) {
	query := `SELECT id, title, slug, dotation, created_at FROM simulations WHERE slug = $1`
	return r.scanSimulationRow(r.db.QueryRowContext(ctx, query, slug))
}

func (r *PostgresSimulationRepository) scanSimulationRow(row *sql.Row) (*simulation.Simulation, error) {
	sim := simulation.Simulation{}
	err := row.Scan(&sim.ID, &sim.Title, &sim.Slug, &sim.Dotation, &sim.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("error getting simulation: %w", err)
	}
	return &sim, nil
}

func (r *PostgresSimulationRepository) ListSimulations(ctx context.Context) ([]*simulation.Simulation, error) {
	query := `SELECT id, title, slug, dotation, created_at FROM simulations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying simulations: %w", err)
	}
	defer rows.Close()
	return scanSimulations(rows)
}

func (r *PostgresSimulationRepository) ListSimulationsByDotation(ctx context.Context, dotation projet.Dotation) ([]*simulation.Simulation, error) {
	query := `SELECT id, title, slug, dotation, created_at FROM simulations WHERE dotation = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, dotation)
	if err != nil {
		return nil, fmt.Errorf("error querying simulations by dotation: %w", err)
	}
	defer rows.Close()
	return scanSimulations(rows)
}

func scanSimulations(rows *sql.Rows) ([]*simulation.Simulation, error) {
	sims := make([]*simulation.Simulation, 0)
	for rows.Next() {
		sim := simulation.Simulation{}
		if err := rows.Scan(&sim.ID, &sim.Title, &sim.Slug, &sim.Dotation, &sim.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning simulation row: %w", err)
		}
		sims = append(sims, &sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulation rows: %w", err)
	}
	return sims, nil
}

func (r *PostgresSimulationRepository) GetStatusSummary(ctx context.Context, simulationID int64) (simulation.StatusSummary, error) {
	query := `SELECT status, COUNT(*) FROM simulation_projets WHERE simulation_id = $1 GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, simulationID)
	if err != nil {
		return nil, fmt.Errorf("error querying status summary: %w", err)
	}
	defer rows.Close()

	summary := simulation.StatusSummary{}
	for rows.Next() {
		var status simulation.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status summary row: %w", err)
		}
		summary[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status summary rows: %w", err)
	}
	return summary, nil
}

// --- SimulationProjet Methods ---

func (r *PostgresSimulationRepository) GetSimulationProjetByID(ctx context.Context, id int64) (*simulation.SimulationProjet, error) {
	query := `SELECT id, simulation_id, dotation_projet_id, montant, taux, status, created_at, updated_at
               FROM simulation_projets WHERE id = $1`
	sp := simulation.SimulationProjet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sp.ID, &sp.SimulationID, &sp.DotationProjetID, &sp.Montant, &sp.Taux,
		&sp.Status, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSimulationProjetNotFound
		}
		return nil, fmt.Errorf("error getting simulation projet by ID: %w", err)
	}
	return &sp, nil
}

func (r *PostgresSimulationRepository) ListSimulationProjetsByDotationProjet(ctx context.Context, dotationProjetID int64) ([]*simulation.SimulationProjet, error) {
	query := `SELECT id, simulation_id, dotation_projet_id, montant, taux, status, created_at, updated_at
               FROM simulation_projets
               WHERE dotation_projet_id = $1 ORDER BY simulation_id`
	rows, err := r.db.QueryContext(ctx, query, dotationProjetID)
	if err != nil {
		return nil, fmt.Errorf("error querying simulation projets by dotation projet: %w", err)
	}
	defer rows.Close()
	return scanSimulationProjets(rows)
}

func scanSimulationProjets(rows *sql.Rows) ([]*simulation.SimulationProjet, error) {
	projets := make([]*simulation.SimulationProjet, 0)
	for rows.Next() {
		sp := simulation.SimulationProjet{}
		if err := rows.Scan(
			&sp.ID, &sp.SimulationID, &sp.DotationProjetID, &sp.Montant, &sp.Taux,
			&sp.Status, &sp.CreatedAt, &sp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning simulation projet row: %w", err)
		}
		projets = append(projets, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulation projet rows: %w", err)
	}
	return projets, nil
}

func (r *PostgresSimulationRepository) CreateSimulationProjet(ctx context.Context, sp *simulation.SimulationProjet) error {
	query := `INSERT INTO simulation_projets (simulation_id, dotation_projet_id, montant, taux, status)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, sp.SimulationID, sp.DotationProjetID, sp.Montant, sp.Taux, sp.Status).
		Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "simulation_dotation_projet_unique") {
			return ErrDuplicateSimulationProjet
		}
		return fmt.Errorf("error creating simulation projet: %w", err)
	}
	return nil
}

func (r *PostgresSimulationRepository) UpdateSimulationProjet(ctx context.Context, sp *simulation.SimulationProjet) error {
	query := `UPDATE simulation_projets
               SET montant = $1, taux = $2, status = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, sp.Montant, sp.Taux, sp.Status, sp.ID).Scan(&sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrSimulationProjetNotFound
		}
		return fmt.Errorf("error updating simulation projet: %w", err)
	}
	return nil
}

func (r *PostgresSimulationRepository) UpsertSimulationProjet(ctx context.Context, sp *simulation.SimulationProjet) error {
	query := `INSERT INTO simulation_projets (simulation_id, dotation_projet_id, montant, taux, status)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT (simulation_id, dotation_projet_id)
               DO UPDATE SET montant = EXCLUDED.montant, taux = EXCLUDED.taux, status = EXCLUDED.status, updated_at = NOW()
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, sp.SimulationID, sp.DotationProjetID, sp.Montant, sp.Taux, sp.Status).
		Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting simulation projet: %w", err)
	}
	return nil
}

func (r *PostgresSimulationRepository) DeleteSimulationProjetsByDotationProjet(ctx context.Context, dotationProjetID int64) error {
	query := `DELETE FROM simulation_projets WHERE dotation_projet_id = $1`
	if _, err := r.db.ExecContext(ctx, query, dotationProjetID); err != nil {
		return fmt.Errorf("error deleting simulation projets by dotation projet: %w", err)
	}
	return nil
}
