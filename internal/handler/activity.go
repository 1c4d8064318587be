package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bithab/bithab/internal/auth"
	"github.com/bithab/bithab/internal/store"
	"github.com/bithab/bithab/internal/websocket"
)

type ActivityHandler struct {
	activities *store.ActivityStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewActivityHandler(as *store.ActivityStore, hub *websocket.Hub, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{activities: as, hub: hub, logger: logger}
}

type activityRequest struct {
	Name string `json:"name"`
}

type subActivityRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// List handles GET /api/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	activities, err := h.activities.List(userID)
	if err != nil {
		h.logger.Error("list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// Create handles POST /api/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	act, err := h.activities.Create(userID, req.Name)
	if err != nil {
		h.logger.Error("create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "created", act.ID, nil))
	writeJSON(w, http.StatusCreated, act)
}

// Get handles GET /api/activities/{id}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	act, err := h.activities.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if act == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, act)
}

// Update handles PUT /api/activities/{id}
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.activities.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	act, err := h.activities.Update(userID, existing.ID, req.Name)
	if err != nil {
		h.logger.Error("update activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "updated", act.ID, nil))
	writeJSON(w, http.StatusOK, act)
}

// Delete handles DELETE /api/activities/{id}. The activity's log entries go
// with it, which can shorten or erase streak history.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := idParam(r)

	existing, err := h.activities.GetByID(userID, id)
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	if err := h.activities.Delete(userID, id); err != nil {
		h.logger.Error("delete activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// CreateSub handles POST /api/activities/{id}/subactivities. Adding the
// first sub-activity turns an atomic activity into a composite one.
func (h *ActivityHandler) CreateSub(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req subActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Color == "" {
		writeError(w, http.StatusBadRequest, "color is required")
		return
	}

	act, err := h.activities.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create sub-activity")
		return
	}
	if act == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	sub, err := h.activities.CreateSub(act.ID, req.Name, req.Color)
	if err != nil {
		h.logger.Error("create sub-activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create sub-activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "updated", act.ID, nil))
	writeJSON(w, http.StatusCreated, sub)
}

// UpdateSub handles PUT /api/subactivities/{id}
func (h *ActivityHandler) UpdateSub(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := idParam(r)

	var req subActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Color == "" {
		writeError(w, http.StatusBadRequest, "name and color are required")
		return
	}

	parent, err := h.activities.OwnerOfUnit(userID, id)
	if err != nil {
		h.logger.Error("resolve sub-activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update sub-activity")
		return
	}
	if parent == nil || parent.ID == id {
		writeError(w, http.StatusNotFound, "sub-activity not found")
		return
	}

	sub, err := h.activities.UpdateSub(id, req.Name, req.Color)
	if err != nil {
		h.logger.Error("update sub-activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update sub-activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "updated", parent.ID, nil))
	writeJSON(w, http.StatusOK, sub)
}

// DeleteSub handles DELETE /api/subactivities/{id}. The sub-activity's log
// entries are removed along with it.
func (h *ActivityHandler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := idParam(r)

	parent, err := h.activities.OwnerOfUnit(userID, id)
	if err != nil {
		h.logger.Error("resolve sub-activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete sub-activity")
		return
	}
	if parent == nil || parent.ID == id {
		writeError(w, http.StatusNotFound, "sub-activity not found")
		return
	}

	if err := h.activities.DeleteSub(userID, id); err != nil {
		h.logger.Error("delete sub-activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete sub-activity")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("activity", "updated", parent.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}
