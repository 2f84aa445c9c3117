package api

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"status": "ok"}
	if s.AnalysisPool != nil {
		payload["analysis_queue"] = s.AnalysisPool.QueueSize()
	}
	respondJSON(w, r, http.StatusOK, payload)
}
