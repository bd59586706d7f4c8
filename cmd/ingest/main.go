// ingest carga el libro maestro XLSX (proveedores, medicamentos, lotes y pauta
// diaria) en PostgreSQL con upserts por clave natural: re-ejecutable sin
// duplicar filas. Aprovisiona el esquema si no existe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Botiquin-api/internal/application/ingest"
	"github.com/jhoicas/Botiquin-api/internal/infrastructure/excel"
	"github.com/jhoicas/Botiquin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Botiquin-api/pkg/config"
	"github.com/jhoicas/Botiquin-api/pkg/logger"
)

func main() {
	var file = flag.String("file", "", "ruta del libro XLSX (obligatorio)")
	flag.Parse()
	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: ingest --file inventario.xlsx")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		Out:   os.Stderr,
	})

	wb, err := excel.ReadWorkbook(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer libro excel")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aprovisionar esquema")
	}

	uc := ingest.NewUseCase(postgres.NewTxRunner(pool))
	summary, err := uc.Apply(ctx, wb)
	if err != nil {
		log.Fatal().Err(err).Msg("ingesta fallida, transacción revertida")
	}

	log.Info().
		Int("suppliers", summary.Suppliers).
		Int("medicines", summary.Medicines).
		Int("batches", summary.Batches).
		Int("dosages", summary.Dosages).
		Msg("ingesta completada")
}
