package handlers

import (
	"context"
	"net/http"
	"time"

	"no-homers/logging"
)

// Pinger reports whether a backend can be reached
type Pinger interface {
	Ping(ctx context.Context) error
}

// FeedChecker reports whether the lines feed answers
type FeedChecker interface {
	HealthCheck(ctx context.Context) bool
}

// HealthHandler answers /healthz. The store must be reachable; a feed that
// does not answer only marks the service degraded.
type HealthHandler struct {
	store  Pinger
	feed   FeedChecker
	logger *logging.Logger
}

// NewHealthHandler creates a health handler. feed may be nil.
func NewHealthHandler(store Pinger, feed FeedChecker) *HealthHandler {
	return &HealthHandler{
		store:  store,
		feed:   feed,
		logger: logging.WithPrefix("Health"),
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Feed     string `json:"feed,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Errorf("Database ping failed: %v", err)
			resp.Status = "down"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.feed != nil {
		resp.Feed = "ok"
		if !h.feed.HealthCheck(ctx) {
			h.logger.Warn("Lines feed is not answering")
			resp.Feed = "unreachable"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	writeJSON(w, status, resp)
}
