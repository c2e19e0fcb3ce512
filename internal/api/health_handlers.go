package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the health of the server and its components.",
		Tags:        []string{"System"},
	}, s.handleHealthCheck)
}

// === DTOs ===

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" enum:"healthy,degraded,unhealthy" doc:"Component status"`
	Message string `json:"message,omitempty" doc:"Optional detail"`
}

// HealthResponse is the full health report.
type HealthResponse struct {
	Status     string                     `json:"status" enum:"healthy,degraded,unhealthy" doc:"Overall status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthOutput wraps the health report for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"sse":      s.checkSSEManager(),
	}

	overall := "healthy"
	for _, c := range components {
		if c.Status == "unhealthy" {
			overall = "unhealthy"
			break
		}
		if c.Status == "degraded" {
			overall = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Timestamp:  time.Now(),
			Components: components,
		},
	}, nil
}

// checkDatabase probes the store with a cheap read. A missing record is fine;
// only an errored read marks the database unhealthy.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if _, err := s.rooms.GetRoom(ctx, "health-probe"); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return ComponentHealth{Status: "healthy"}
		}
		return ComponentHealth{Status: "unhealthy", Message: err.Error()}
	}
	return ComponentHealth{Status: "healthy"}
}

func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{Status: "degraded", Message: "sse manager not configured"}
	}
	return ComponentHealth{Status: "healthy"}
}
