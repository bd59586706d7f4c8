package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Botiquin-api/internal/application/auth"
	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/application/inventory"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	DashboardUC *reporting.DashboardUseCase
	StockUC     *inventory.StockUseCase
	RunUC       *dailyrun.RunUseCase
	PDF         reporting.StockPDFGenerator
	JWTSecret   string
}

// Router registra las rutas de la API. Las consultas del tablero son públicas;
// las mutaciones de stock y el run diario requieren Bearer Token (salvo que la
// aplicación corra sin contraseña configurada).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Tablero y consultas (público)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard := api.Group("/dashboard")
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/stock", dashboardHandler.GetStockByMedicine)

	medicineHandler := NewMedicineHandler(deps.DashboardUC)
	medicines := api.Group("/medicines")
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id/stock", medicineHandler.GetStock)

	batchHandler := NewBatchHandler(deps.DashboardUC)
	batches := api.Group("/batches")
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)

	moveHandler := NewMoveHandler(deps.DashboardUC)
	api.Get("/moves", moveHandler.List)

	alertHandler := NewAlertHandler(deps.DashboardUC)
	alerts := api.Group("/alerts")
	alerts.Get("/reorder", alertHandler.GetReorder)
	alerts.Get("/expiring", alertHandler.GetExpiring)

	reportHandler := NewReportHandler(deps.DashboardUC, deps.PDF)
	api.Get("/reports/stock.pdf", reportHandler.GetStockPDF)

	// Rutas protegidas (mutan el libro)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC.Open()))

	inventoryHandler := NewInventoryHandler(deps.StockUC)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/receive", inventoryHandler.Receive)
	invGroup.Post("/adjust", inventoryHandler.Adjust)

	runHandler := NewRunHandler(deps.RunUC)
	protected.Post("/runs", runHandler.Create)
}
