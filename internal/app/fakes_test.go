package app

import (
	"context"
	"errors"

	"dotation_simulation_service/internal/domain/projet"
	"dotation_simulation_service/internal/domain/simulation"
)

var errFakeNotFound = errors.New("not found")

// fakeSimulationRepo is an in-memory simulation.Repository. Reads return
// copies so only an explicit update mutates the store, mirroring a database.
type fakeSimulationRepo struct {
	sims   map[int64]*simulation.Simulation
	sps    map[int64]*simulation.SimulationProjet
	nextID int64
}

func newFakeSimulationRepo() *fakeSimulationRepo {
	return &fakeSimulationRepo{
		sims: make(map[int64]*simulation.Simulation),
		sps:  make(map[int64]*simulation.SimulationProjet),
	}
}

func (r *fakeSimulationRepo) addSimulation(s simulation.Simulation) {
	r.sims[s.ID] = &s
}

func (r *fakeSimulationRepo) addSimulationProjet(sp simulation.SimulationProjet) {
	r.sps[sp.ID] = &sp
	if sp.ID > r.nextID {
		r.nextID = sp.ID
	}
}

func (r *fakeSimulationRepo) GetSimulationByID(_ context.Context, id int64) (*simulation.Simulation, error) {
	s, ok := r.sims[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeSimulationRepo) GetSimulationBySlug(_ context.Context, slug string) (*simulation.Simulation, error) {
	for _, s := range r.sims {
		if s.Slug == slug {
			c := *s
			return &c, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeSimulationRepo) ListSimulations(_ context.Context) ([]*simulation.Simulation, error) {
	var out []*simulation.Simulation
	for _, s := range r.sims {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeSimulationRepo) ListSimulationsByDotation(_ context.Context, dotation projet.Dotation) ([]*simulation.Simulation, error) {
	var out []*simulation.Simulation
	for _, s := range r.sims {
		if s.Dotation == dotation {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSimulationRepo) GetStatusSummary(_ context.Context, simulationID int64) (simulation.StatusSummary, error) {
	summary := simulation.StatusSummary{}
	for _, sp := range r.sps {
		if sp.SimulationID == simulationID {
			summary[sp.Status]++
		}
	}
	return summary, nil
}

func (r *fakeSimulationRepo) GetSimulationProjetByID(_ context.Context, id int64) (*simulation.SimulationProjet, error) {
	sp, ok := r.sps[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *sp
	return &c, nil
}

func (r *fakeSimulationRepo) ListSimulationProjetsByDotationProjet(_ context.Context, dotationProjetID int64) ([]*simulation.SimulationProjet, error) {
	var out []*simulation.SimulationProjet
	for _, sp := range r.sps {
		if sp.DotationProjetID == dotationProjetID {
			c := *sp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSimulationRepo) CreateSimulationProjet(_ context.Context, sp *simulation.SimulationProjet) error {
	r.nextID++
	sp.ID = r.nextID
	c := *sp
	r.sps[c.ID] = &c
	return nil
}

func (r *fakeSimulationRepo) UpdateSimulationProjet(_ context.Context, sp *simulation.SimulationProjet) error {
	if _, ok := r.sps[sp.ID]; !ok {
		return errFakeNotFound
	}
	c := *sp
	r.sps[c.ID] = &c
	return nil
}

func (r *fakeSimulationRepo) UpsertSimulationProjet(_ context.Context, sp *simulation.SimulationProjet) error {
	for _, existing := range r.sps {
		if existing.SimulationID == sp.SimulationID && existing.DotationProjetID == sp.DotationProjetID {
			existing.Montant = sp.Montant
			existing.Taux = sp.Taux
			existing.Status = sp.Status
			sp.ID = existing.ID
			return nil
		}
	}
	return r.CreateSimulationProjet(context.Background(), sp)
}

func (r *fakeSimulationRepo) DeleteSimulationProjetsByDotationProjet(_ context.Context, dotationProjetID int64) error {
	for id, sp := range r.sps {
		if sp.DotationProjetID == dotationProjetID {
			delete(r.sps, id)
		}
	}
	return nil
}

// fakeProjetRepo is an in-memory projet.Repository.
type fakeProjetRepo struct {
	projets map[int64]*projet.Projet
	dps     map[int64]*projet.DotationProjet
	nextID  int64
}

func newFakeProjetRepo() *fakeProjetRepo {
	return &fakeProjetRepo{
		projets: make(map[int64]*projet.Projet),
		dps:     make(map[int64]*projet.DotationProjet),
	}
}

func (r *fakeProjetRepo) addProjet(p projet.Projet) {
	r.projets[p.ID] = &p
}

func (r *fakeProjetRepo) addDotationProjet(dp projet.DotationProjet) {
	r.dps[dp.ID] = &dp
	if dp.ID > r.nextID {
		r.nextID = dp.ID
	}
}

func (r *fakeProjetRepo) GetProjetByID(_ context.Context, id int64) (*projet.Projet, error) {
	p, ok := r.projets[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProjetRepo) GetDotationProjetByID(_ context.Context, id int64) (*projet.DotationProjet, error) {
	dp, ok := r.dps[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *dp
	return &c, nil
}

func (r *fakeProjetRepo) GetDotationProjet(_ context.Context, projetID int64, dotation projet.Dotation) (*projet.DotationProjet, error) {
	for _, dp := range r.dps {
		if dp.ProjetID == projetID && dp.Dotation == dotation {
			c := *dp
			return &c, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeProjetRepo) ListDotationProjetsByProjet(_ context.Context, projetID int64) ([]*projet.DotationProjet, error) {
	var out []*projet.DotationProjet
	for _, dp := range r.dps {
		if dp.ProjetID == projetID {
			c := *dp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeProjetRepo) ListDotationProjetsByDotation(_ context.Context, dotation projet.Dotation) ([]*projet.DotationProjet, error) {
	var out []*projet.DotationProjet
	for _, dp := range r.dps {
		if dp.Dotation == dotation {
			c := *dp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeProjetRepo) CreateDotationProjet(_ context.Context, dp *projet.DotationProjet) error {
	r.nextID++
	dp.ID = r.nextID
	c := *dp
	r.dps[c.ID] = &c
	return nil
}

func (r *fakeProjetRepo) UpdateDotationProjet(_ context.Context, dp *projet.DotationProjet) error {
	if _, ok := r.dps[dp.ID]; !ok {
		return errFakeNotFound
	}
	c := *dp
	r.dps[c.ID] = &c
	return nil
}

func (r *fakeProjetRepo) DeleteDotationProjet(_ context.Context, id int64) error {
	delete(r.dps, id)
	return nil
}

// fakeNotifier records the alerts sent to the admin chat.
type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) Send(_ int64, text string) error {
	n.sent = append(n.sent, text)
	return nil
}
