package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// BatchHandler maneja las consultas de lotes.
type BatchHandler struct {
	uc *reporting.DashboardUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *reporting.DashboardUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// List lista lotes en orden FEFO. Filtros: ?medicine_id= y ?in_stock=true.
// GET /api/batches
func (h *BatchHandler) List(c *fiber.Ctx) error {
	onlyInStock := c.QueryBool("in_stock", false)
	list, err := h.uc.BatchesFEFO(c.Context(), c.Query("medicine_id"), onlyInStock)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":   len(list),
		"batches": dto.FromBatches(list),
	})
}

// GetByID devuelve un lote con su conciliación contra el libro de movimientos.
// GET /api/batches/:id
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "batch_id debe ser numérico"})
	}
	detail, err := h.uc.BatchByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if detail == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.JSON(fiber.Map{
		"batch":      dto.FromBatch(detail.Batch),
		"ledger_sum": detail.LedgerSum,
		"reconciled": detail.Reconciled,
	})
}
