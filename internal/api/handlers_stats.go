package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider":    s.profiles.Provider(),
		"stats":       s.profiles.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
