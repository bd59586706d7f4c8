package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// AlertHandler maneja alertas de reposición y vencimientos próximos.
type AlertHandler struct {
	uc *reporting.DashboardUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *reporting.DashboardUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// GetReorder lista medicamentos de la pauta con stock bajo el umbral de alerta.
// GET /api/alerts/reorder
func (h *AlertHandler) GetReorder(c *fiber.Ctx) error {
	list, err := h.uc.ReorderAlerts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": dto.FromReorderAlerts(list),
	})
}

// GetExpiring lista lotes con stock que vencen dentro de ?days= días (60 por defecto).
// GET /api/alerts/expiring
func (h *AlertHandler) GetExpiring(c *fiber.Ctx) error {
	list, err := h.uc.ExpiringBatches(c.Context(), time.Now(), c.QueryInt("days", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":   len(list),
		"batches": dto.FromBatches(list),
	})
}
