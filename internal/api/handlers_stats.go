package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.summarizer == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.summarizer.Provider(),
		"model":    s.summarizer.Model(),
		"stats":    s.summarizer.Stats().Snapshot(),
	})
}
