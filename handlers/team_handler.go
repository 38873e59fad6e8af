package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/services"
)

type TeamHandler struct {
	teamService   services.TeamService
	views         *Renderer
	maxUploadSize int64
}

func NewTeamHandler(ts services.TeamService, views *Renderer, maxUploadSize int64) *TeamHandler {
	return &TeamHandler{teamService: ts, views: views, maxUploadSize: maxUploadSize}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *TeamHandler) renderList(w http.ResponseWriter, r *http.Request, status int, message string) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		h.views.serverError(w, r, err)
		return
	}
	h.views.Render(w, r, status, pageTeamsIndex, viewData{Teams: teams, Message: message})
}

func (h *TeamHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageTeamForm, viewData{
		Action: "/teams/create",
		Form:   models.TeamViewModel{},
	})
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(w, r, h.maxUploadSize)
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	defer form.Close()

	vm := form.teamViewModel(0)
	data := viewData{Action: "/teams/create", Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageTeamForm, data)
		return
	}

	if _, err := h.teamService.CreateTeam(r.Context(), vm); err != nil {
		renderServiceError(w, r, h.views, err, pageTeamForm, data)
		return
	}
	redirect(w, r, "/teams")
}

func (h *TeamHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	vm, err := h.teamService.GetTeamForEdit(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageTeamForm, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageTeamForm, viewData{
		Action: fmt.Sprintf("/teams/%d/edit", id),
		Form:   vm,
	})
}

func (h *TeamHandler) Edit(w http.ResponseWriter, r *http.Request) {
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

	vm := form.teamViewModel(id)
	data := viewData{Action: fmt.Sprintf("/teams/%d/edit", id), Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageTeamForm, data)
		return
	}

	if _, err := h.teamService.UpdateTeam(r.Context(), vm); err != nil {
		renderServiceError(w, r, h.views, err, pageTeamForm, data)
		return
	}
	redirect(w, r, "/teams")
}

// Delete re-renders the list with a message when the team still plays in some group.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	if err := h.teamService.DeleteTeam(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrTeamInUse) {
			h.renderList(w, r, http.StatusConflict, err.Error())
			return
		}
		renderServiceError(w, r, h.views, err, pageError, viewData{})
		return
	}
	redirect(w, r, "/teams")
}
