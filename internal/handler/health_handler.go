package handler

import (
	"net/http"
	"time"

	"github.com/cryptosden/backend/internal/service"
)

// SchedulerStatus is the subset of scheduler state the health endpoint reports.
type SchedulerStatus interface {
	IsRunning() bool
	GetNextRunTime() time.Time
}

type HealthHandler struct {
	metrics   *service.MetricsCollector
	scheduler SchedulerStatus
}

func NewHealthHandler(metrics *service.MetricsCollector, scheduler SchedulerStatus) *HealthHandler {
	return &HealthHandler{metrics: metrics, scheduler: scheduler}
}

type healthResponse struct {
	Status    string                `json:"status"`
	Scheduler bool                  `json:"schedulerRunning"`
	Evaluator service.HealthStatus  `json:"evaluator"`
	LastCycle *service.CycleMetrics `json:"lastCycle,omitempty"`
}

// Health godoc
// @Summary Service health
// @Description Health of the API and the evaluation scheduler
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var next time.Time
	running := false
	if h.scheduler != nil {
		running = h.scheduler.IsRunning()
		next = h.scheduler.GetNextRunTime()
	}

	evaluator := h.metrics.GetHealthStatus(next)

	resp := healthResponse{
		Status:    "ok",
		Scheduler: running,
		Evaluator: evaluator,
		LastCycle: h.metrics.LastCycle(),
	}

	status := http.StatusOK
	if !evaluator.Healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}
