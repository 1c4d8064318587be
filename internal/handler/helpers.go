package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bithab/bithab/internal/habit"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func idParam(r *http.Request) string {
	return r.PathValue("id")
}

// validDate reports whether s is a well-formed calendar date key.
func validDate(s string) bool {
	_, err := habit.ParseDate(s)
	return err == nil
}
