package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// MedicineHandler maneja las consultas de medicamentos.
type MedicineHandler struct {
	uc *reporting.DashboardUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(uc *reporting.DashboardUseCase) *MedicineHandler {
	return &MedicineHandler{uc: uc}
}

// List lista medicamentos con búsqueda opcional (?q=) insensible a tildes.
// GET /api/medicines
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	list, err := h.uc.Medicines(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"medicines": dto.FromMedicines(list),
	})
}

// GetStock devuelve el stock agregado de un medicamento puntual.
// GET /api/medicines/:id/stock
func (h *MedicineHandler) GetStock(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.uc.MedicineStock(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
	}
	return c.JSON(dto.FromStockResult(*res))
}
