package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	views             *Renderer
	maxUploadSize     int64
}

func NewTournamentHandler(ts services.TournamentService, views *Renderer, maxUploadSize int64) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts, views: views, maxUploadSize: maxUploadSize}
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		h.views.serverError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageTournamentsIndex, viewData{Tournaments: tournaments})
}

func (h *TournamentHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageTournamentForm, viewData{
		Action: "/tournaments/create",
		Form:   models.TournamentViewModel{IsActive: true},
	})
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	defer form.Close()

	vm := form.tournamentViewModel(0)
	data := viewData{Action: "/tournaments/create", Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageTournamentForm, data)
		return
	}

	if _, err := h.tournamentService.CreateTournament(r.Context(), vm); err != nil {
		renderServiceError(w, r, h.views, err, pageTournamentForm, data)
		return
	}
	redirect(w, r, "/tournaments")
}

func (h *TournamentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	vm, err := h.tournamentService.GetTournamentForEdit(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageTournamentForm, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageTournamentForm, viewData{
		Action: fmt.Sprintf("/tournaments/%d/edit", id),
		Form:   vm,
	})
}

func (h *TournamentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	form, err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	defer form.Close()

	vm := form.tournamentViewModel(id)
	data := viewData{Action: fmt.Sprintf("/tournaments/%d/edit", id), Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageTournamentForm, data)
		return
	}

	if _, err := h.tournamentService.UpdateTournament(r.Context(), vm); err != nil {
		renderServiceError(w, r, h.views, err, pageTournamentForm, data)
		return
	}
	redirect(w, r, "/tournaments")
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		renderServiceError(w, r, h.views, err, pageError, viewData{})
		return
	}
	redirect(w, r, "/tournaments")
}

func (h *TournamentHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	tournament, err := h.tournamentService.GetTournamentDetails(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageError, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageTournamentDetails, viewData{Tournament: tournament})
}
