package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/soccer-web/services"
)

type GroupHandler struct {
	groupService services.GroupService
	views        *Renderer
}

func NewGroupHandler(gs services.GroupService, views *Renderer) *GroupHandler {
	return &GroupHandler{groupService: gs, views: views}
}

// AddForm renders an empty group form for the tournament in the path.
func (h *GroupHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	vm, err := h.groupService.NewGroupViewModel(r.Context(), tournamentID)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageGroupForm, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageGroupForm, viewData{
		Action: fmt.Sprintf("/tournaments/%d/groups/add", tournamentID),
		Form:   vm,
	})
}

// Add creates a group. The tournament comes from the submitted tournament_id field; the
// path id only fills it in when the field is absent.
func (h *GroupHandler) Add(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	form, err := parseForm(w, r, noFileUpload)
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	defer form.Close()

	vm := form.groupViewModel(0)
	if form.String("tournament_id") == "" {
		vm.TournamentID = tournamentID
	}
	data := viewData{Action: fmt.Sprintf("/tournaments/%d/groups/add", tournamentID), Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageGroupForm, data)
		return
	}

	group, err := h.groupService.AddGroup(r.Context(), vm)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageGroupForm, data)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%d", group.TournamentID()))
}

func (h *GroupHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	vm, err := h.groupService.GetGroupForEdit(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageGroupForm, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageGroupForm, viewData{
		Action: fmt.Sprintf("/groups/%d/edit", id),
		Form:   vm,
	})
}

func (h *GroupHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	form, err := parseForm(w, r, noFileUpload)
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	defer form.Close()

	vm := form.groupViewModel(id)
	data := viewData{Action: fmt.Sprintf("/groups/%d/edit", id), Form: vm}
	if !form.Valid() {
		data.Errors = form.errors
		h.views.Render(w, r, http.StatusUnprocessableEntity, pageGroupForm, data)
		return
	}

	group, err := h.groupService.UpdateGroup(r.Context(), vm)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageGroupForm, data)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%d", group.TournamentID()))
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	tournamentID, err := h.groupService.DeleteGroup(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageError, viewData{})
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%d", tournamentID))
}

func (h *GroupHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.views.badRequest(w, r, err)
		return
	}
	group, err := h.groupService.GetGroupDetails(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, h.views, err, pageError, viewData{})
		return
	}
	h.views.Render(w, r, http.StatusOK, pageGroupDetails, viewData{Group: group})
}
