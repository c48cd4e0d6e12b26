package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports service liveness and basic host statistics.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

type healthResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  int64   `json:"uptimeSeconds"`
	Hostname       string  `json:"hostname,omitempty"`
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
}

// Get returns the current health snapshot. Stat collection failures degrade
// to zeros rather than failing the probe.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	if info, err := host.Info(); err == nil {
		resp.Hostname = info.Hostname
	} else {
		log.Warn().Err(err).Msg("Failed to read host info")
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedPercent = vm.UsedPercent
	}

	respondJSON(w, http.StatusOK, resp)
}
