package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/httputil"
)

// Pinger reports whether the backing store is reachable. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness, database reachability and uptime.
type HealthHandler struct {
	db        Pinger
	startedAt time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// Check probes the database and reports overall status. A failed probe
// degrades the response to 503 so load balancers stop routing here.
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	database := "ok"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check database ping failed", "error", err)
		status = "degraded"
		database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, code, map[string]interface{}{
		"status":         status,
		"database":       database,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}
