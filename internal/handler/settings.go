package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bithab/bithab/internal/auth"
	"github.com/bithab/bithab/internal/store"
	"github.com/bithab/bithab/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, hub: hub, logger: logger}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	all, err := h.settings.GetAll(userID)
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

type settingsRequest struct {
	Theme        *string `json:"theme,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// Update handles PUT /api/settings. Only the fields present in the request
// are changed.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Theme != nil {
		if *req.Theme != "light" && *req.Theme != "dark" {
			writeError(w, http.StatusBadRequest, "theme must be light or dark")
			return
		}
		if err := h.settings.Set(userID, store.SettingTheme, *req.Theme); err != nil {
			h.logger.Error("set theme", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	if req.ReminderTime != nil {
		if _, err := time.Parse("15:04", *req.ReminderTime); err != nil {
			writeError(w, http.StatusBadRequest, "reminder_time must be HH:MM")
			return
		}
		if err := h.settings.Set(userID, store.SettingReminderTime, *req.ReminderTime); err != nil {
			h.logger.Error("set reminder time", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	all, err := h.settings.GetAll(userID)
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("settings", "updated", "", nil))
	writeJSON(w, http.StatusOK, all)
}
