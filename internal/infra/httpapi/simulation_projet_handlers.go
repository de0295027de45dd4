// internal/infra/httpapi/simulation_projet_handlers.go
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"dotation_simulation_service/internal/domain/confirm"
	"dotation_simulation_service/internal/domain/simulation"
)

func simulationProjetFormID(id int64) string {
	return fmt.Sprintf("simulation-projet-form-%d", id)
}

func statusControlID(id int64) string {
	return fmt.Sprintf("status-select-%d", id)
}

// handleStatusChange is the entry point of a status-select change. The gate
// either commits right away (the row partial comes back) or answers with the
// confirmation dialog to disclose.
func (s *Server) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	newStatus := simulation.Status(r.FormValue("status"))
	originalStatus := simulation.Status(r.FormValue("original_status"))

	s.statusGates.mu.Lock()
	defer s.statusGates.mu.Unlock()

	e := s.statusGates.entry(id)
	e.host.ctx = r.Context()
	e.host.status = newStatus
	e.host.committed = nil

	dialog, err := e.gate.Begin(confirm.Transition{
		NewStatus:      newStatus,
		OriginalStatus: originalStatus,
		FormID:         simulationProjetFormID(id),
		ControlID:      statusControlID(id),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if dialog != nil {
		w.Header().Set("HX-Trigger", dialog.ModalID)
		s.renderPartial(w, "status-dialog", dialog)
		return
	}
	if e.host.committed != nil {
		s.renderPartial(w, "simulation-projet-row", newSimulationProjetRowView(e.host.committed))
		return
	}
	// Status without a dialog binding: already logged by the gate.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatusConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.statusGates.mu.Lock()
	defer s.statusGates.mu.Unlock()

	e := s.statusGates.entry(id)
	e.host.ctx = r.Context()
	e.host.committed = nil

	if err := e.gate.Confirm(); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if e.host.committed == nil {
		// Nothing was pending (stale confirm click).
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.renderPartial(w, "simulation-projet-row", newSimulationProjetRowView(e.host.committed))
}

func (s *Server) handleStatusCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.statusGates.mu.Lock()
	defer s.statusGates.mu.Unlock()

	e := s.statusGates.entry(id)
	e.host.ctx = r.Context()
	e.host.reset = false

	if err := e.gate.Cancel(); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if e.host.reset {
		// The browser owns the actual form reset and focus restoration.
		w.Header().Set("HX-Trigger", "status-change-cancelled")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateTaux(w http.ResponseWriter, r *http.Request) {
	s.handleNumericUpdate(w, r, "taux", s.simSvc.UpdateTaux)
}

func (s *Server) handleUpdateMontant(w http.ResponseWriter, r *http.Request) {
	s.handleNumericUpdate(w, r, "montant", s.simSvc.UpdateMontant)
}

func (s *Server) handleUpdateAssiette(w http.ResponseWriter, r *http.Request) {
	s.handleNumericUpdate(w, r, "assiette", s.simSvc.UpdateAssiette)
}

// handleNumericUpdate serves the montant/taux/assiette PATCH endpoints. The
// submitted value is expected in pre-normalized dot-decimal form but French
// formatting is accepted as well.
func (s *Server) handleNumericUpdate(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, simulationProjetID int64, raw string) (*simulation.SimulationProjet, error),
) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	sp, err := update(r.Context(), id, r.FormValue(field))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.renderPartial(w, "simulation-projet-row", newSimulationProjetRowView(sp))
}

func (s *Server) handleStatusSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.simSvc.StatusSummary(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.logger.WithError(err).Error("Failed to encode status summary")
	}
}
