package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Botiquin-api/internal/application/auth"
	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/application/inventory"
	"github.com/jhoicas/Botiquin-api/internal/application/reporting"
	infrapdf "github.com/jhoicas/Botiquin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Botiquin-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Botiquin-api/internal/interfaces/http"
	"github.com/jhoicas/Botiquin-api/pkg/config"
	"github.com/jhoicas/Botiquin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aprovisionar esquema")
	}

	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	dashboardUC := reporting.NewDashboardUseCase(reportRepo, batchRepo, moveRepo, medicineRepo)
	stockUC := inventory.NewStockUseCase(txRunner)
	runUC := dailyrun.NewRunUseCase(txRunner, decimal.NewFromFloat(cfg.Run.Epsilon), cfg.Run.AnchorHour)
	authUC := auth.NewUseCase(cfg.Auth.PasswordHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pdfGenerator := infrapdf.NewStockReportGenerator()

	if authUC.Open() {
		log.Warn().Msg("sin AUTH_PASSWORD_HASH configurado: mutaciones de stock abiertas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DashboardUC: dashboardUC,
		StockUC:     stockUC,
		RunUC:       runUC,
		PDF:         pdfGenerator,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
