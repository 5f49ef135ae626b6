package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"checkout-pricing-api/utils"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	startTime time.Time
	database  PingFunc
	redis     PingFunc
}

func NewHealthHandler(database, redis PingFunc) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), database: database, redis: redis}
}

type healthResponse struct {
	Status    string `json:"status"`
	Time      string `json:"time"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Uptime    string `json:"uptime"`
	GoVersion string `json:"go_version"`
}

// Health reports degraded rather than failing when a dependency is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := healthResponse{
		Status:    "ok",
		Time:      time.Now().Format(time.RFC3339),
		Database:  check(ctx, h.database),
		Redis:     check(ctx, h.redis),
		Uptime:    fmt.Sprintf("%v", time.Since(h.startTime).Round(time.Second)),
		GoVersion: runtime.Version(),
	}
	if health.Database != "connected" || health.Redis != "connected" {
		health.Status = "degraded"
	}

	utils.SendJSON(w, http.StatusOK, health)
}

func check(ctx context.Context, ping PingFunc) string {
	if ping == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := ping(pingCtx); err != nil {
		return "error"
	}
	return "connected"
}
