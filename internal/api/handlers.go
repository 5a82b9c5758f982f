package api

import "net/http"

// handleListProjects returns the project registry, filtered by the
// optional q and category query parameters.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	projects := s.registry.Search(q, category)
	s.writeJSON(w, http.StatusOK, ProjectsResponse{Projects: projects, Total: len(projects)})
}

// handleCalc evaluates one arithmetic expression.
func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	var req CalcRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.calc.EvaluateContext(r.Context(), req.Expression)
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "expression", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CalcResponse{Expression: res.Expression, Result: res.Value})
}
