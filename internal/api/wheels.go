package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/wheelstore"
)

// handleListWheels returns all saved wheel configurations, newest first.
func (s *Server) handleListWheels(w http.ResponseWriter, r *http.Request) {
	configs, err := s.wheels.List()
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, WheelsResponse{Wheels: configs, Total: len(configs)})
}

// handleCreateWheel saves a new wheel configuration.
func (s *Server) handleCreateWheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cfg, err := s.wheels.Create(req.Name, req.Items)
	if err != nil {
		s.handleWheelStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, cfg)
}

// handleGetWheel returns one saved configuration.
func (s *Server) handleGetWheel(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.wheels.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleWheelStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cfg)
}

// handleUpdateWheel replaces a configuration's name and items.
func (s *Server) handleUpdateWheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cfg, err := s.wheels.Update(chi.URLParam(r, "id"), req.Name, req.Items)
	if err != nil {
		s.handleWheelStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cfg)
}

// handleDeleteWheel removes a saved configuration.
func (s *Server) handleDeleteWheel(w http.ResponseWriter, r *http.Request) {
	if err := s.wheels.Delete(chi.URLParam(r, "id")); err != nil {
		s.handleWheelStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSpinWheel spins a saved wheel and returns the winning segment.
func (s *Server) handleSpinWheel(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.wheels.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleWheelStoreError(w, r, err)
		return
	}

	var req SpinRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := games.SpinWheel(newSource(req.Seed), cfg.Items)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, SpinResponse{
		WheelID: cfg.ID,
		Index:   result.Index,
		Label:   result.Label,
		Angle:   result.Angle,
	})
}

// handleWheelStoreError maps store failures onto the error envelope.
func (s *Server) handleWheelStoreError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	switch {
	case errors.Is(err, wheelstore.ErrNotFound):
		apiErr := NewError(ErrTypeNotFound, "wheel config not found").
			WithRequestID(requestID).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusNotFound)

	case errors.Is(err, wheelstore.ErrInvalidConfig):
		apiErr := NewError(ErrTypeValidation, err.Error()).
			WithRequestID(requestID).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusBadRequest)

	default:
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
	}
}
