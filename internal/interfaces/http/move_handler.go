package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// MoveHandler maneja las consultas del libro de movimientos.
type MoveHandler struct {
	uc *reporting.DashboardUseCase
}

// NewMoveHandler construye el handler.
func NewMoveHandler(uc *reporting.DashboardUseCase) *MoveHandler {
	return &MoveHandler{uc: uc}
}

// List devuelve movimientos recientes. Filtros: ?reason=, ?date=YYYY-MM-DD, ?limit=.
// GET /api/moves
func (h *MoveHandler) List(c *fiber.Ctx) error {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "date debe ser YYYY-MM-DD"})
		}
		date = &d
	}
	list, err := h.uc.Moves(c.Context(), c.Query("reason"), date, c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"moves": dto.FromMoves(list),
	})
}
