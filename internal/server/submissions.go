package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"ocena/internal/db"
)

const maxListLimit = 500

// HistoryEntry is a stored submission with its age in words.
type HistoryEntry struct {
	db.Submission
	Submitted string `json:"submitted"`
}

func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	subs, err := s.store.ListSubmissions(r.Context(), limit)
	if err != nil {
		s.logger.Error("list submissions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "DB error")
		return
	}

	now := s.now()
	entries := make([]HistoryEntry, 0, len(subs))
	for _, sub := range subs {
		sub.Feedback = ""
		entries = append(entries, HistoryEntry{Submission: sub, Submitted: humanize.RelTime(sub.Timestamp, now, "ago", "from now")})
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": entries})
}

func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		s.logger.Error("get submission failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "DB error")
		return
	}
	writeJSON(w, http.StatusOK, HistoryEntry{Submission: sub, Submitted: humanize.RelTime(sub.Timestamp, s.now(), "ago", "from now")})
}
