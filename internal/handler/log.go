package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bithab/bithab/internal/auth"
	"github.com/bithab/bithab/internal/habit"
	"github.com/bithab/bithab/internal/store"
	"github.com/bithab/bithab/internal/websocket"
)

// LogHandler covers the daily log toggle plus the calendar and streak views
// computed from it.
type LogHandler struct {
	activities *store.ActivityStore
	logs       *store.LogStore
	notes      *store.NoteStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewLogHandler(as *store.ActivityStore, ls *store.LogStore, ns *store.NoteStore, hub *websocket.Hub, logger *slog.Logger) *LogHandler {
	return &LogHandler{activities: as, logs: ls, notes: ns, hub: hub, logger: logger}
}

type toggleRequest struct {
	Date   string `json:"date"`
	UnitID string `json:"unit_id"`
}

type toggleResponse struct {
	Date    string        `json:"date"`
	UnitIDs []string      `json:"unit_ids"`
	Streaks habit.Streaks `json:"streaks"`
}

// Toggle handles POST /api/logs/toggle. Toggling an already-set entry
// removes it; marks for a composite activity are recorded per sub-activity,
// never against the parent id.
func (h *LogHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.UnitID == "" {
		writeError(w, http.StatusBadRequest, "unit_id is required")
		return
	}

	owner, err := h.activities.OwnerOfUnit(userID, req.UnitID)
	if err != nil {
		h.logger.Error("resolve unit", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle")
		return
	}
	if owner == nil {
		writeError(w, http.StatusNotFound, "unknown unit")
		return
	}
	if owner.ID == req.UnitID && len(owner.SubActivities) > 0 {
		writeError(w, http.StatusBadRequest, "composite activity is logged through its sub-activities")
		return
	}

	logData, err := h.logs.LoadAll(userID)
	if err != nil {
		h.logger.Error("load log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle")
		return
	}

	logData.Toggle(req.Date, req.UnitID)
	if err := h.logs.SaveDay(userID, req.Date, logData.UnitIDs(req.Date)); err != nil {
		h.logger.Error("save day", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle")
		return
	}

	streaks := habit.ComputeStreaks(owner.Habit(), logData, time.Now())

	h.hub.Broadcast(userID, websocket.NewDateMessage("log", "toggled", req.Date, map[string]any{
		"unit_id":     req.UnitID,
		"activity_id": owner.ID,
	}))

	writeJSON(w, http.StatusOK, toggleResponse{
		Date:    req.Date,
		UnitIDs: logData.UnitIDs(req.Date),
		Streaks: streaks,
	})
}

// Day handles GET /api/logs/{date}, returning the units logged on one day.
func (h *LogHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	date := r.PathValue("date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	logData, err := h.logs.LoadAll(userID)
	if err != nil {
		h.logger.Error("load log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load log")
		return
	}

	unitIDs := logData.UnitIDs(date)
	if unitIDs == nil {
		unitIDs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "unit_ids": unitIDs})
}

type calendarResponse struct {
	ActivityID string          `json:"activity_id"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Cells      []habit.DayCell `json:"cells"`
	NoteDates  []string        `json:"note_dates"`
}

// Calendar handles GET /api/activities/{id}/calendar?year=&month=
func (h *LogHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	act, err := h.activities.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	if act == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}
	}

	logData, err := h.logs.LoadAll(userID)
	if err != nil {
		h.logger.Error("load log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	noteDates, err := h.notes.ListDayNoteDates(userID)
	if err != nil {
		h.logger.Error("list note dates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	if noteDates == nil {
		noteDates = []string{}
	}

	cells := habit.BuildMonthGrid(act.Habit(), logData, year, time.Month(month))
	writeJSON(w, http.StatusOK, calendarResponse{
		ActivityID: act.ID,
		Year:       year,
		Month:      month,
		Cells:      cells,
		NoteDates:  noteDates,
	})
}

// Streaks handles GET /api/activities/{id}/streaks
func (h *LogHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	act, err := h.activities.GetByID(userID, idParam(r))
	if err != nil {
		h.logger.Error("get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute streaks")
		return
	}
	if act == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	logData, err := h.logs.LoadAll(userID)
	if err != nil {
		h.logger.Error("load log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute streaks")
		return
	}

	writeJSON(w, http.StatusOK, habit.ComputeStreaks(act.Habit(), logData, time.Now()))
}
