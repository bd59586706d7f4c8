package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements es el DDL idempotente del Ledger Store. Se ejecuta sentencia
// por sentencia (el protocolo extendido de pgx no acepta multi-comando).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		supplier_id    TEXT PRIMARY KEY,
		supplier_name  TEXT NOT NULL,
		lead_time_days INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS medicines (
		id            TEXT PRIMARY KEY,
		medicine_name TEXT NOT NULL,
		salt          TEXT,
		uses          TEXT,
		daily_dose    NUMERIC NOT NULL DEFAULT 0,
		supplier_id   TEXT REFERENCES suppliers(supplier_id) ON DELETE SET NULL,
		reorder_level NUMERIC NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// batch_id bigserial: monótono creciente, es el desempate FEFO.
	// stock_units >= 0 es la red de seguridad contra sobreconsumo.
	`CREATE TABLE IF NOT EXISTS batches (
		batch_id     BIGSERIAL PRIMARY KEY,
		medicine_id  TEXT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
		batch_no     TEXT NOT NULL,
		stock_units  NUMERIC NOT NULL CHECK (stock_units >= 0),
		expiry_date  DATE,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (medicine_id, batch_no)
	)`,

	`CREATE TABLE IF NOT EXISTS daily_dosage (
		medicine_id      TEXT PRIMARY KEY REFERENCES medicines(id) ON DELETE CASCADE,
		before_breakfast NUMERIC NOT NULL DEFAULT 0,
		after_breakfast  NUMERIC NOT NULL DEFAULT 0,
		evening          NUMERIC NOT NULL DEFAULT 0,
		after_dinner     NUMERIC NOT NULL DEFAULT 0
	)`,

	`CREATE OR REPLACE VIEW v_daily_units AS
	 SELECT medicine_id,
	        before_breakfast + after_breakfast + evening + after_dinner AS units_per_day
	 FROM daily_dosage`,

	// Libro de movimientos: append-only, sin UPDATE ni DELETE desde la app.
	`CREATE TABLE IF NOT EXISTS stock_moves (
		id          BIGSERIAL PRIMARY KEY,
		ts          TIMESTAMPTZ NOT NULL DEFAULT now(),
		medicine_id TEXT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
		batch_id    BIGINT REFERENCES batches(batch_id) ON DELETE SET NULL,
		qty_change  NUMERIC NOT NULL,
		reason      TEXT NOT NULL CHECK (reason IN ('receipt','consumption','expired','adjustment','shortfall')),
		note        TEXT,
		run_id      TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_batches_fefo
	 ON batches (medicine_id, expiry_date ASC NULLS LAST, batch_id ASC)`,

	`CREATE INDEX IF NOT EXISTS idx_moves_reason_ts ON stock_moves (reason, ts)`,

	`CREATE OR REPLACE FUNCTION touch_batch_last_updated() RETURNS trigger AS $$
	 BEGIN
	   IF NEW.stock_units IS DISTINCT FROM OLD.stock_units THEN
	     NEW.last_updated = now();
	   END IF;
	   RETURN NEW;
	 END $$ LANGUAGE plpgsql`,

	`DROP TRIGGER IF EXISTS trg_batches_touch ON batches`,

	`CREATE TRIGGER trg_batches_touch
	 BEFORE UPDATE OF stock_units ON batches
	 FOR EACH ROW EXECUTE FUNCTION touch_batch_last_updated()`,
}

// EnsureSchema aplica el DDL del Ledger Store. Es idempotente: ambos binarios
// lo invocan al arrancar.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return nil
}
