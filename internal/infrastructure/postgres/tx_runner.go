package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/application/ingest"
	"github.com/jhoicas/Botiquin-api/internal/application/inventory"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ dailyrun.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ ingest.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a esa tx. Commit si el callback retorna nil, Rollback si
// retorna error: la unidad completa se aplica o no se aplica nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia la transacción del run diario (guardia + recorte + asignación).
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	dosageRepo repository.DosageRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewStockMoveRepository(tx), NewDosageRepository(tx), NewMedicineRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInventory inicia la transacción de una operación manual de stock
// (recepción o ajuste con su movimiento de balance).
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewStockMoveRepository(tx), NewMedicineRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunIngest inicia la transacción de la carga de planilla (upserts por clave).
func (r *TxRunner) RunIngest(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	medicineRepo repository.MedicineRepository,
	batchRepo repository.BatchRepository,
	dosageRepo repository.DosageRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSupplierRepository(tx), NewMedicineRepository(tx), NewBatchRepository(tx), NewDosageRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
