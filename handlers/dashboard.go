package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}

func (h *DashboardHandler) Standings(w http.ResponseWriter, r *http.Request) {
	teams, err := h.dashboardService.GetStandings(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"standings": teams})
}

func (h *DashboardHandler) Leaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.dashboardService.GetLeaders(r.Context(), toInt(r.URL.Query().Get("limit"), 10))
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, leaders)
}
