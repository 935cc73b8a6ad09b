package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the service is up and its store reachable.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Store unreachable"
// @Router /health [get]
func (h *ApplicationHandler) HealthCheck(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "healthy", Timestamp: time.Now().UTC(), Version: Version}
	if h.Health != nil {
		if err := h.Health.Check(c.UserContext()); err != nil {
			h.Logger.WithError(err).Warn("Health check failed")
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
