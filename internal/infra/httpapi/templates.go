// internal/infra/httpapi/templates.go
package httpapi

import (
	"html/template"

	"dotation_simulation_service/internal/domain/confirm"
	"dotation_simulation_service/internal/domain/numeric"
	"dotation_simulation_service/internal/domain/simulation"
)

// Partials swapped into the page by the htmx transport. The surrounding page
// (table, modal shells, styles) is rendered elsewhere; these fragments only
// carry what an interaction changes.
var partials = template.Must(template.New("partials").Parse(`
{{define "simulation-projet-row"}}<tr id="simulation-projet-{{.ID}}" class="simulation-projet-row" data-status="{{.Status}}">
  <td class="montant">{{.Montant}}</td>
  <td class="taux">{{.Taux}}</td>
  <td class="status">{{.Status}}</td>
</tr>{{end}}

{{define "status-dialog"}}<div id="{{.ModalID}}" class="confirmation-modal" role="dialog" aria-modal="true">
  <div id="{{.ModalID}}-content" class="confirmation-modal-content">
    {{if .InitialStatusLabel}}<p>Ce projet était <span class="initial-status">{{.InitialStatusLabel}}</span> dans cette simulation.</p>{{end}}
    {{if .ShowRemoveFromProgrammation}}<p class="remove-from-programmation">Ce projet sera retiré de la programmation.</p>{{end}}
    <textarea id="motivation" name="motivation" form="{{.MotivationFormID}}"></textarea>
  </div>
  <button type="button" id="confirmChange"{{if not .ButtonsEnabled}} disabled{{end}}>Confirmer</button>
  <button type="button" class="close-modal"{{if not .ButtonsEnabled}} disabled{{end}}>Annuler</button>
</div>{{end}}

{{define "selection-dialog"}}<div id="dotation-confirmation-modal-content" class="confirmation-modal" role="dialog" aria-modal="true">
  <h1 class="modal-title">{{.Title}}</h1>
  <div class="modal-body">{{.Message}}</div>
  <button type="button" id="confirm-dotation-update">Confirmer</button>
  <button type="button" class="close-modal">Annuler</button>
</div>{{end}}
`))

// simulationProjetRowView carries a line's display values, formatted the
// French way.
type simulationProjetRowView struct {
	ID      int64
	Montant string
	Taux    string
	Status  simulation.Status
}

func newSimulationProjetRowView(sp *simulation.SimulationProjet) simulationProjetRowView {
	return simulationProjetRowView{
		ID:      sp.ID,
		Montant: numeric.FormatMontant(sp.Montant),
		Taux:    numeric.FormatTaux(sp.Taux),
		Status:  sp.Status,
	}
}

// selectionDialogView wraps a SelectionDialog for rendering. The message
// carries inline markup built from trusted constants, never user input.
type selectionDialogView struct {
	Title   string
	Message template.HTML
}

func newSelectionDialogView(d *confirm.SelectionDialog) selectionDialogView {
	return selectionDialogView{Title: d.Title, Message: template.HTML(d.Message)}
}
