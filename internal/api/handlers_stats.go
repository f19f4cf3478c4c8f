package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleAnalyzeStats(w http.ResponseWriter, r *http.Request) {
	if s.latency == nil {
		jsonError(w, "analysis stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"window": s.latency.Window().String(),
		"stats":  s.latency.Snapshot(),
	})
}
