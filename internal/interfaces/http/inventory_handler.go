package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/inventory"
	"github.com/jhoicas/Botiquin-api/internal/domain"
)

// InventoryHandler maneja las mutaciones manuales de stock (protegido).
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Receive registra una entrada de stock sobre un lote nuevo o existente.
// POST /api/inventory/receive
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var expiry *time.Time
	if in.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", in.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_date debe ser YYYY-MM-DD"})
		}
		expiry = &d
	}
	batch, err := h.uc.Receive(c.Context(), inventory.ReceiveInput{
		MedicineID: in.MedicineID,
		BatchNo:    in.BatchNo,
		Quantity:   in.Quantity,
		ExpiryDate: expiry,
		Note:       in.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "medicine_id, batch_no y quantity > 0 son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromBatch(batch))
}

// Adjust fija el stock de un lote a una cantidad absoluta auditada.
// POST /api/inventory/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Adjust(c.Context(), inventory.AdjustInput{
		BatchID:     in.BatchID,
		NewQuantity: in.NewQuantity,
		Note:        in.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNegativeStock) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NEGATIVE_STOCK", Message: "la cantidad no puede ser negativa"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(res)
}
