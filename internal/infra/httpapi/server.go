// internal/infra/httpapi/server.go
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dotation_simulation_service/internal/app"
	"dotation_simulation_service/internal/domain/confirm"
	idb "dotation_simulation_service/internal/infra/database"
)

// Server is the host adapter: it wires htmx form events to the confirmation
// gates and the application services, and renders the partials swapped back
// into the page.
type Server struct {
	httpServer     *http.Server
	simSvc         app.SimulationProjetService
	dotSvc         app.DotationService
	logger         logrus.FieldLogger
	statusGates    *statusGateRegistry
	selectionGates *selectionGateRegistry
}

func NewServer(
	addr string,
	simSvc app.SimulationProjetService,
	dotSvc app.DotationService,
	logger logrus.FieldLogger,
) *Server {
	s := &Server{
		simSvc: simSvc,
		dotSvc: dotSvc,
		logger: logger,
		statusGates: newStatusGateRegistry(simSvc, func(host confirm.Host) *confirm.Gate {
			return confirm.NewGate(host, logger)
		}),
		selectionGates: newSelectionGateRegistry(dotSvc),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /simulation-projets/{id}/status", s.handleStatusChange)
	mux.HandleFunc("POST /simulation-projets/{id}/status/confirm", s.handleStatusConfirm)
	mux.HandleFunc("POST /simulation-projets/{id}/status/cancel", s.handleStatusCancel)

	mux.HandleFunc("PATCH /simulation-projets/{id}/taux", s.handleUpdateTaux)
	mux.HandleFunc("PATCH /simulation-projets/{id}/montant", s.handleUpdateMontant)
	mux.HandleFunc("PATCH /simulation-projets/{id}/assiette", s.handleUpdateAssiette)

	mux.HandleFunc("GET /simulations/{slug}/summary", s.handleStatusSummary)

	mux.HandleFunc("POST /projets/{id}/dotations", s.handleDotationChange)
	mux.HandleFunc("POST /projets/{id}/dotations/confirm", s.handleDotationConfirm)
	mux.HandleFunc("POST /projets/{id}/dotations/cancel", s.handleDotationCancel)

	return mux
}

func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

// writeServiceError maps application errors onto the status codes the page
// contract relies on: 400 makes the client reset the originating form.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidStatus),
		errors.Is(err, app.ErrInvalidNumericInput),
		errors.Is(err, app.ErrEmptySelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, idb.ErrSimulationNotFound),
		errors.Is(err, idb.ErrSimulationProjetNotFound),
		errors.Is(err, idb.ErrProjetNotFound),
		errors.Is(err, idb.ErrDotationProjetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.WithError(err).Error("Request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := partials.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.WithError(err).WithField("partial", name).Error("Failed to render partial")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
