// internal/infra/httpapi/hosts.go
package httpapi

import (
	"context"
	"sync"

	"dotation_simulation_service/internal/app"
	"dotation_simulation_service/internal/domain/confirm"
	"dotation_simulation_service/internal/domain/simulation"
)

// statusFormHost binds the confirmation gate to the application service. The
// htmx transport is present on this host, so silent commits go through
// Trigger (the out-of-band partial update) rather than a full submission.
//
// ctx and the requested transition are rebound on every request touching the
// gate; a begin replacing a pending transition overwrites them, which matches
// the gate's replace-not-queue contract.
type statusFormHost struct {
	svc app.SimulationProjetService

	ctx                context.Context
	simulationProjetID int64
	status             simulation.Status

	committed *simulation.SimulationProjet
	reset     bool
	focused   string
}

func (h *statusFormHost) Submit(string) error {
	sp, err := h.svc.UpdateStatus(h.ctx, h.simulationProjetID, h.status)
	if err != nil {
		return err
	}
	h.committed = sp
	return nil
}

func (h *statusFormHost) Trigger(formID, _ string) error {
	return h.Submit(formID)
}

// Reset and Focus are compensations executed by the browser; the host only
// records them so the response can instruct the client.
func (h *statusFormHost) Reset(string) error {
	h.reset = true
	return nil
}

func (h *statusFormHost) Focus(controlID string) error {
	h.focused = controlID
	return nil
}

type statusGateEntry struct {
	gate *confirm.Gate
	host *statusFormHost
}

// statusGateRegistry holds one confirmation gate per simulation projet line,
// created lazily. Handlers run one at a time per line under the lock, which
// mirrors the single-threaded event model of the page.
type statusGateRegistry struct {
	mu      sync.Mutex
	svc     app.SimulationProjetService
	newGate func(host confirm.Host) *confirm.Gate
	entries map[int64]*statusGateEntry
}

func newStatusGateRegistry(svc app.SimulationProjetService, newGate func(host confirm.Host) *confirm.Gate) *statusGateRegistry {
	return &statusGateRegistry{
		svc:     svc,
		newGate: newGate,
		entries: make(map[int64]*statusGateEntry),
	}
}

func (r *statusGateRegistry) entry(simulationProjetID int64) *statusGateEntry {
	if e, ok := r.entries[simulationProjetID]; ok {
		return e
	}
	host := &statusFormHost{svc: r.svc, simulationProjetID: simulationProjetID}
	e := &statusGateEntry{gate: r.newGate(host), host: host}
	r.entries[simulationProjetID] = e
	return e
}

// selectionFormHost is the statusFormHost counterpart for the dotation
// checkboxes of a projet form.
type selectionFormHost struct {
	svc app.DotationService

	ctx      context.Context
	projetID int64
	selected confirm.Selection

	committed bool
	reset     bool
}

func (h *selectionFormHost) Submit(string) error {
	if err := h.svc.UpdateSelection(h.ctx, h.projetID, h.selected); err != nil {
		return err
	}
	h.committed = true
	return nil
}

func (h *selectionFormHost) Reset(string) error {
	h.reset = true
	return nil
}

func (h *selectionFormHost) Focus(string) error { return nil }

type selectionGateEntry struct {
	gate *confirm.SelectionGate
	host *selectionFormHost
}

// selectionGateRegistry holds one selection gate per projet. The initial
// selection is snapshotted when the gate is created and the entry is dropped
// after a committed change, so the next interaction re-snapshots.
type selectionGateRegistry struct {
	mu      sync.Mutex
	svc     app.DotationService
	entries map[int64]*selectionGateEntry
}

func newSelectionGateRegistry(svc app.DotationService) *selectionGateRegistry {
	return &selectionGateRegistry{svc: svc, entries: make(map[int64]*selectionGateEntry)}
}

func (r *selectionGateRegistry) entry(ctx context.Context, projetID int64) (*selectionGateEntry, error) {
	if e, ok := r.entries[projetID]; ok {
		return e, nil
	}
	initial, err := r.svc.CurrentSelection(ctx, projetID)
	if err != nil {
		return nil, err
	}
	host := &selectionFormHost{svc: r.svc, projetID: projetID}
	e := &selectionGateEntry{gate: confirm.NewSelectionGate(host, initial), host: host}
	r.entries[projetID] = e
	return e, nil
}

func (r *selectionGateRegistry) drop(projetID int64) {
	delete(r.entries, projetID)
}
