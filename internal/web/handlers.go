package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fuzzyload/internal/pipeline"
)

// Summary aggregates an audit trail for the review dashboard.
type Summary struct {
	Total      int         `json:"total"`
	Accepted   int         `json:"accepted"`
	NearMisses int         `json:"near_misses"`
	Histogram  map[int]int `json:"score_histogram"` // bucket floor (0,10..100) -> count
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := pipeline.ReadAudit(s.auditPath)
	if err != nil {
		log.Printf("failed to read audit file: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit file unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	entries, err := pipeline.ReadAudit(s.auditPath)
	if err != nil {
		log.Printf("failed to read audit file: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit file unavailable"})
		return
	}

	summary := Summary{Total: len(entries), Histogram: make(map[int]int)}
	for _, entry := range entries {
		if entry.Accepted {
			summary.Accepted++
		} else {
			summary.NearMisses++
		}
		bucket := entry.Score / 10 * 10
		if bucket > 100 {
			bucket = 100
		}
		summary.Histogram[bucket]++
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
