// applydose aplica la pauta diaria de medicación contra la base de datos:
// recorta lotes vencidos, deduce la dosis del día en orden FEFO y deja el
// resultado como JSON en stdout. Pensado para correr una vez al día vía cron.
//
// Códigos de salida: 0 run aplicado u omitido (día ya aplicado), 1 run fallido.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Botiquin-api/pkg/config"
	"github.com/jhoicas/Botiquin-api/pkg/logger"
)

func main() {
	var (
		dateFlag = flag.String("date", "", "fecha del run (YYYY-MM-DD, vacío = hoy)")
		force    = flag.Bool("force", false, "repetir aunque el día ya esté aplicado")
		verbose  = flag.Bool("verbose", false, "log a nivel debug")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	// stdout queda reservado para el resultado JSON del run.
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: level,
		Out:   os.Stderr,
	})

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatal().Str("date", *dateFlag).Msg("fecha inválida, formato YYYY-MM-DD")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	runUC := dailyrun.NewRunUseCase(txRunner, decimal.NewFromFloat(cfg.Run.Epsilon), cfg.Run.AnchorHour)

	log.Info().
		Str("date", date.Format("2006-01-02")).
		Bool("force", *force).
		Msg("aplicando pauta diaria")

	res, err := runUC.Run(ctx, dailyrun.RunInput{Date: date, Force: *force})
	if res != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			log.Error().Err(encErr).Msg("serializar resultado")
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("run fallido, transacción revertida")
		os.Exit(1)
	}

	switch res.State {
	case dailyrun.StateSkipped:
		log.Info().Str("run_id", res.RunID).Msg("día ya aplicado, run omitido")
	default:
		log.Info().
			Str("run_id", res.RunID).
			Int("expired_batches", res.ExpiredBatches).
			Int("medicines", len(res.Items)).
			Int("shortfalls", res.Shortfalls).
			Msg("run aplicado")
	}
}
