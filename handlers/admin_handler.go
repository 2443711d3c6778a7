package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

// AdminHandler serves moderation and repair operations. Every route is admin-only.
type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(s services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: s}
}

func (h *AdminHandler) ResetMatch(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.adminService.ResetMatch(r.Context(), fixtureID, editorFrom(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

func (h *AdminHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getEventIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var patch services.EventPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.adminService.EditEvent(r.Context(), eventID, patch, editorFrom(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"event": event})
}

func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getEventIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteEvent(r.Context(), eventID, editorFrom(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CleanupDuplicates(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.adminService.CleanupDuplicates(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

func (h *AdminHandler) VerifySync(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := getIDFromURL(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.adminService.VerifySync(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, report)
}

func (h *AdminHandler) SyncPlayerStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.SyncAllPlayerStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

func (h *AdminHandler) ValidatePlayerStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.adminService.ValidatePlayerStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, report)
}

func (h *AdminHandler) RecomputePositions(w http.ResponseWriter, r *http.Request) {
	updates, err := h.adminService.RecomputeAllPositions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"positions": updates})
}
