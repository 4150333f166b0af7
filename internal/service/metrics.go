package service

import (
	"sync"
	"time"
)

// CycleMetrics holds the outcome of a single evaluation cycle.
type CycleMetrics struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Evaluated   int
	Triggered   int
	Dispatched  int
	FetchErrors int
	StaleSkips  int
	Success     bool
	Error       string
}

// MetricsCollector aggregates evaluation cycle metrics for the health endpoint.
type MetricsCollector struct {
	mu             sync.RWMutex
	lastCycle      *CycleMetrics
	totalCycles    int
	successfulRuns int
	failedRuns     int
	lastRunTime    time.Time
}

// NewMetricsCollector creates a new MetricsCollector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordCycle records a completed evaluation cycle.
func (mc *MetricsCollector) RecordCycle(m CycleMetrics) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	cycle := m
	mc.lastCycle = &cycle
	mc.totalCycles++
	mc.lastRunTime = m.CompletedAt
	if m.Success {
		mc.successfulRuns++
	} else {
		mc.failedRuns++
	}
}

// LastCycle returns a copy of the most recent cycle's metrics, nil before the
// first cycle completes.
func (mc *MetricsCollector) LastCycle() *CycleMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.lastCycle == nil {
		return nil
	}
	cycle := *mc.lastCycle
	return &cycle
}

// HealthStatus summarizes evaluator health for the health endpoint.
type HealthStatus struct {
	Healthy     bool      `json:"healthy"`
	LastRunTime time.Time `json:"lastRunTime"`
	NextRunTime time.Time `json:"nextRunTime"`
	TotalCycles int       `json:"totalCycles"`
	FailedRuns  int       `json:"failedRuns"`
	Message     string    `json:"message,omitempty"`
}

// GetHealthStatus reports evaluator health. The evaluator is unhealthy when
// the most recent cycle failed outright; fetch errors for individual assets
// are expected and do not fail a cycle.
func (mc *MetricsCollector) GetHealthStatus(nextRunTime time.Time) HealthStatus {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	status := HealthStatus{
		LastRunTime: mc.lastRunTime,
		NextRunTime: nextRunTime,
		TotalCycles: mc.totalCycles,
		FailedRuns:  mc.failedRuns,
	}

	switch {
	case mc.totalCycles == 0:
		status.Healthy = true
		status.Message = "No evaluation cycles recorded yet"
	case mc.lastCycle != nil && !mc.lastCycle.Success:
		status.Message = "Last evaluation cycle failed: " + mc.lastCycle.Error
	default:
		status.Healthy = true
		status.Message = "Evaluator is operating normally"
	}

	return status
}
