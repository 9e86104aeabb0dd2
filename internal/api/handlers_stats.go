package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"publishing":  s.orchestrator.Publishing(),
		"processing":  s.orchestrator.Extractor().Stats().Snapshot(),
	}
	if s.cache != nil {
		cs, err := s.cache.Stats(r.Context())
		if err != nil {
			s.log.Warn("cache stats failed", "error", err)
		} else {
			resp["cache"] = cs
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
