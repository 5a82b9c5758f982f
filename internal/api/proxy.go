package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// handleSudokuProxy relays a raw generate request to the upstream puzzle
// API without interpreting it, so browser clients never hit CORS. The
// upstream's status, content type and body pass through verbatim.
func (s *Server) handleSudokuProxy(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		requestID := middleware.GetReqID(r.Context())
		apiErr := NewError(ErrTypeInvalidParams, "request body unreadable or too large").
			WithRequestID(requestID).
			WithCause(err).
			Build()
		s.errorHandler.writeErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	res, err := s.puzzles.Proxy(r.Context(), body)
	if err != nil {
		s.handleUpstreamError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("X-Hub-Version", HubVersion)
	w.WriteHeader(res.StatusCode)
	if _, err := w.Write(res.Body); err != nil {
		s.logger.Warn().Err(err).Msg("proxy response write failed")
	}
}
