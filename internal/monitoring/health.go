package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks the outcome of the most recent run for the /healthz endpoint.
type HealthChecker struct {
	mu        sync.RWMutex
	lastRun   time.Time
	lastRows  int
	lastError string
	runs      int
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastRows  int       `json:"last_rows"`
	Runs      int       `json:"runs"`
	Uptime    string    `json:"uptime"`
	LastError string    `json:"last_error,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// RecordRun stores the outcome of a run. A nil error clears the previous failure.
func (h *HealthChecker) RecordRun(rows int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs++
	h.lastRun = time.Now()
	h.lastRows = rows
	h.lastError = ""
	if err != nil {
		h.lastError = err.Error()
	}
}

// Status returns a snapshot of the current health.
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastError != "" {
		status = "degraded"
	}
	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastRun:   h.lastRun,
		LastRows:  h.lastRows,
		Runs:      h.runs,
		Uptime:    time.Since(startTime).String(),
		LastError: h.lastError,
	}
}

// ServeHTTP reports 200 while healthy and 503 after a failed run.
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}
