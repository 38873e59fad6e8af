package handlers

import (
	"net/http"

	"github.com/Dosada05/soccer-web/services"
)

// APIHandler serves read-only JSON views of the same data as the HTML pages.
type APIHandler struct {
	tournamentService services.TournamentService
	groupService      services.GroupService
	teamService       services.TeamService
}

func NewAPIHandler(ts services.TournamentService, gs services.GroupService, tms services.TeamService) *APIHandler {
	return &APIHandler{tournamentService: ts, groupService: gs, teamService: tms}
}

// ListTournaments godoc
// @Summary List tournaments with their groups
// @Produce json
// @Success 200 {object} map[string][]models.Tournament
// @Router /api/tournaments [get]
func (h *APIHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournament godoc
// @Summary Tournament with groups, matches and standings
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} map[string]models.Tournament
// @Failure 404 {object} map[string]string
// @Router /api/tournaments/{id} [get]
func (h *APIHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.tournamentService.GetTournamentDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroup godoc
// @Summary Group with matches and standings
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]models.Group
// @Failure 404 {object} map[string]string
// @Router /api/groups/{id} [get]
func (h *APIHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	group, err := h.groupService.GetGroupDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"group": group}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams godoc
// @Summary List teams
// @Produce json
// @Success 200 {object} map[string][]models.Team
// @Router /api/teams [get]
func (h *APIHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
