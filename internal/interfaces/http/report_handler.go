package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/dto"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// ReportHandler genera informes descargables.
type ReportHandler struct {
	uc  *reporting.DashboardUseCase
	pdf reporting.StockPDFGenerator
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.DashboardUseCase, pdf reporting.StockPDFGenerator) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf}
}

// GetStockPDF genera el informe de existencias en PDF.
// GET /api/reports/stock.pdf
func (h *ReportHandler) GetStockPDF(c *fiber.Ctx) error {
	data, err := h.uc.BuildStockReport(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	doc, err := h.pdf.Generate(c.Context(), data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-report.pdf"`)
	return c.Send(doc)
}
