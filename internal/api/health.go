package api

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	HubVersion string                 `json:"hub_version"`
	GitCommit  string                 `json:"git_commit,omitempty"`
	BuildTime  string                 `json:"build_time,omitempty"`
	Uptime     string                 `json:"uptime"`
	Checks     map[string]HealthCheck `json:"checks"`
	System     SystemInfo             `json:"system"`
	RequestID  string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemoryTotal   uint64 `json:"memory_total_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	checks := make(map[string]HealthCheck)
	overallStatus := HealthStatusHealthy

	dbCheck := s.checkDatabaseHealth()
	checks["database"] = dbCheck
	if dbCheck.Status == HealthStatusUnhealthy {
		overallStatus = HealthStatusUnhealthy
	}

	registryCheck := s.checkRegistryHealth()
	checks["registry"] = registryCheck
	if registryCheck.Status != HealthStatusHealthy && overallStatus == HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	response := HealthCheckResponse{
		Status:     overallStatus,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		HubVersion: HubVersion,
		GitCommit:  GitCommit,
		BuildTime:  BuildTime,
		Uptime:     time.Since(s.startTime).String(),
		Checks:     checks,
		System:     s.getSystemInfo(),
		RequestID:  requestID,
	}

	// Degraded still answers 200; only a dead dependency flips the probe.
	statusCode := http.StatusOK
	if overallStatus == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, response)
}

// handleReadiness provides readiness probe endpoint
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	ready := true
	message := "Ready"

	if s.wheels == nil {
		ready = false
		message = "Wheel store not initialized"
	} else if err := s.wheels.Ping(); err != nil {
		ready = false
		message = fmt.Sprintf("Wheel store unreachable: %v", err)
	}

	if ready && (s.registry == nil || len(s.registry.All()) == 0) {
		ready = false
		message = "No projects registered"
	}

	response := map[string]any{
		"ready":       ready,
		"message":     message,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"hub_version": HubVersion,
		"request_id":  requestID,
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, response)
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	response := map[string]any{
		"alive":       true,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"hub_version": HubVersion,
		"uptime":      time.Since(s.startTime).String(),
		"request_id":  requestID,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// checkDatabaseHealth pings the wheel config database
func (s *Server) checkDatabaseHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Database connection healthy"

	if s.wheels == nil {
		status = HealthStatusUnhealthy
		message = "Database not initialized"
	} else if err := s.wheels.Ping(); err != nil {
		status = HealthStatusUnhealthy
		message = fmt.Sprintf("Database ping failed: %v", err)
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// checkRegistryHealth checks that the project registry is populated
func (s *Server) checkRegistryHealth() HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Registry healthy"

	if s.registry == nil {
		status = HealthStatusUnhealthy
		message = "Registry not initialized"
	} else if n := len(s.registry.All()); n == 0 {
		status = HealthStatusDegraded
		message = "No projects registered"
	} else {
		message = fmt.Sprintf("%d projects registered", n)
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// getSystemInfo collects system information
func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemoryTotal:   m.TotalAlloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}
