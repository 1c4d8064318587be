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

type NoteHandler struct {
	notes  *store.NoteStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: ns, hub: hub, logger: logger}
}

// GetDayNote handles GET /api/days/{date}/note
func (h *NoteHandler) GetDayNote(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	date := r.PathValue("date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	note, err := h.notes.GetDayNote(userID, date)
	if err != nil {
		h.logger.Error("get day note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeJSON(w, http.StatusOK, map[string]string{"date": date, "body": ""})
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type dayNoteRequest struct {
	Body string `json:"body"`
}

// PutDayNote handles PUT /api/days/{date}/note. Saving an empty body
// deletes the note.
func (h *NoteHandler) PutDayNote(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	date := r.PathValue("date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var req dayNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	note, err := h.notes.SetDayNote(userID, date, strings.TrimSpace(req.Body))
	if err != nil {
		h.logger.Error("set day note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save note")
		return
	}

	h.hub.Broadcast(userID, websocket.NewDateMessage("day_note", "updated", date, nil))

	if note == nil {
		writeJSON(w, http.StatusOK, map[string]string{"date": date, "body": ""})
		return
	}
	writeJSON(w, http.StatusOK, note)
}

type noteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// List handles GET /api/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	notes, err := h.notes.List(userID)
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Create handles POST /api/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	note, err := h.notes.Create(userID, req.Title, req.Body)
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("note", "created", note.ID, nil))
	writeJSON(w, http.StatusCreated, note)
}

// Update handles PUT /api/notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	existing, err := h.notes.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	note, err := h.notes.Update(userID, existing.ID, req.Title, req.Body)
	if err != nil {
		h.logger.Error("update note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("note", "updated", note.ID, nil))
	writeJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /api/notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := idParam(r)

	existing, err := h.notes.GetByID(userID, id)
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	if err := h.notes.Delete(userID, id); err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	h.hub.Broadcast(userID, websocket.NewMessage("note", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
