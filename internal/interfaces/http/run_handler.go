package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/application/dto"
)

// RunHandler dispara la aplicación diaria de la pauta vía HTTP (protegido).
type RunHandler struct {
	uc *dailyrun.RunUseCase
}

// NewRunHandler construye el handler.
func NewRunHandler(uc *dailyrun.RunUseCase) *RunHandler {
	return &RunHandler{uc: uc}
}

// Create aplica la pauta del día indicado (hoy por defecto).
// Un día ya aplicado responde 200 con state "skipped" salvo force=true.
// POST /api/runs
func (h *RunHandler) Create(c *fiber.Ctx) error {
	var in dto.RunRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date := time.Now()
	if in.Date != "" {
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = d
	}

	res, err := h.uc.Run(c.Context(), dailyrun.RunInput{Date: date, Force: in.Force})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RUN_FAILED", Message: err.Error()})
	}
	status := fiber.StatusCreated
	if res.State == dailyrun.StateSkipped {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(res)
}
