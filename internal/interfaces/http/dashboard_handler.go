package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *reporting.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reporting.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las métricas de cabecera y los medicamentos bajo reorden.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	totals, below, err := h.uc.Summary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.DashboardSummaryDTO{
		Medicines:     totals.Medicines,
		Batches:       totals.Batches,
		UnitsInStock:  totals.UnitsInStock,
		DailyPlanMeds: totals.DailyPlanMeds,
		BelowReorder:  dto.FromStockResults(below),
	})
}

// GetStockByMedicine devuelve el stock agregado por medicamento.
// GET /api/dashboard/stock
func (h *DashboardHandler) GetStockByMedicine(c *fiber.Ctx) error {
	list, err := h.uc.StockByMedicine(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"stock": dto.FromStockResults(list),
	})
}
