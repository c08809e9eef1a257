package controllers

import (
	"gymdesk_go/services"

	"github.com/gofiber/fiber/v2"
)

// HealthController serves the public health endpoint
type HealthController struct {
	health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	if health == nil {
		health = services.NewHealthService("", "")
	}
	return &HealthController{health: health}
}

// GetHealthStatus reports dependency liveness and runtime figures. Responds
// 503 when the database is unreachable so load balancers pull the instance.
func (hc *HealthController) GetHealthStatus(c *fiber.Ctx) error {
	report := hc.health.GetHealthReport()
	return c.Status(hc.health.HTTPStatusForOverall(report.Status)).JSON(report)
}
