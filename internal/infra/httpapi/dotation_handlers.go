// internal/infra/httpapi/dotation_handlers.go
package httpapi

import (
	"net/http"
	"strconv"

	"dotation_simulation_service/internal/domain/confirm"
)

// The projet form keeps a fixed identifier in the page markup.
func projetFormID(int64) string {
	return "projet_form"
}

// handleDotationChange is the entry point of an envelope-checkbox change on a
// projet form. A no-op or empty selection submits silently; anything else
// comes back as the explanatory confirmation dialog.
func (s *Server) handleDotationChange(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	newSel, err := confirm.ParseSelection(r.Form["dotations"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.selectionGates.mu.Lock()
	defer s.selectionGates.mu.Unlock()

	e, err := s.selectionGates.entry(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	e.host.ctx = r.Context()
	e.host.selected = newSel
	e.host.committed = false

	dialog, err := e.gate.Begin(projetFormID(id), newSel)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if dialog != nil {
		w.Header().Set("HX-Trigger", "dotation-confirmation-modal")
		s.renderPartial(w, "selection-dialog", newSelectionDialogView(dialog))
		return
	}
	if e.host.committed {
		s.selectionGates.drop(id)
		w.Header().Set("HX-Refresh", "true")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDotationConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.selectionGates.mu.Lock()
	defer s.selectionGates.mu.Unlock()

	e, err := s.selectionGates.entry(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	e.host.ctx = r.Context()
	e.host.committed = false

	if err := e.gate.Confirm(); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if e.host.committed {
		s.selectionGates.drop(id)
		w.Header().Set("HX-Refresh", "true")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDotationCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.selectionGates.mu.Lock()
	defer s.selectionGates.mu.Unlock()

	e, err := s.selectionGates.entry(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	e.host.ctx = r.Context()
	e.host.reset = false

	if err := e.gate.Cancel(); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if e.host.reset {
		// The browser restores the checkboxes to the initial selection.
		w.Header().Set("HX-Trigger", "dotation-change-cancelled")
	}
	w.WriteHeader(http.StatusNoContent)
}
