package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación sobre PostgreSQL (usable con pool o tx).
// El orden FEFO vive en una sola expresión SQL: vencimiento nulo al final,
// vencimiento ascendente, empate por batch_id ascendente.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `batch_id, medicine_id, batch_no, stock_units, expiry_date, last_updated`

const fefoOrder = ` ORDER BY (expiry_date IS NULL) ASC, expiry_date ASC, batch_id ASC`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.BatchID, &b.MedicineID, &b.BatchNo, &b.StockUnits, &b.ExpiryDate, &b.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) queryBatches(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// GetByID obtiene un lote; nil sin error cuando no existe.
func (r *BatchRepo) GetByID(ctx context.Context, batchID int64) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetByIDForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetByIDForUpdate(ctx context.Context, batchID int64) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

// ListExpired lista lotes con stock cuyo vencimiento es estrictamente anterior
// a runDate (candidatos a recorte). Bloquea las filas: corre dentro de la tx
// del run.
func (r *BatchRepo) ListExpired(ctx context.Context, runDate time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE stock_units > 0 AND expiry_date IS NOT NULL AND expiry_date < $1::date
		ORDER BY batch_id
		FOR UPDATE`
	list, err := r.queryBatches(ctx, query, runDate)
	if err != nil {
		return nil, fmt.Errorf("list expired batches: %w", err)
	}
	return list, nil
}

// ListEligibleFEFO lista, ya en orden FEFO y con bloqueo de fila, los lotes con
// stock de un medicamento cuyo vencimiento es nulo o >= runDate. El filtro de
// fecha es la red de seguridad: tras el recorte no debería quedar stock
// vencido, pero el predicado lo excluye igual.
func (r *BatchRepo) ListEligibleFEFO(ctx context.Context, medicineID string, runDate time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE medicine_id = $1
		  AND stock_units > 0
		  AND (expiry_date IS NULL OR expiry_date >= $2::date)` +
		fefoOrder + `
		FOR UPDATE`
	list, err := r.queryBatches(ctx, query, medicineID, runDate)
	if err != nil {
		return nil, fmt.Errorf("list eligible batches: %w", err)
	}
	return list, nil
}

// ListFEFO lista lotes en orden FEFO para el tablero (sin bloqueo).
func (r *BatchRepo) ListFEFO(ctx context.Context, medicineID string, onlyInStock bool) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches`
	var args []any
	where := ""
	if medicineID != "" {
		args = append(args, medicineID)
		where = ` WHERE medicine_id = $1`
	}
	if onlyInStock {
		if where == "" {
			where = ` WHERE stock_units > 0`
		} else {
			where += ` AND stock_units > 0`
		}
	}
	list, err := r.queryBatches(ctx, query+where+fefoOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches fefo: %w", err)
	}
	return list, nil
}

// ListExpiringWithin lista lotes con stock que vencen dentro de days días desde from.
func (r *BatchRepo) ListExpiringWithin(ctx context.Context, from time.Time, days int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE stock_units > 0
		  AND expiry_date IS NOT NULL
		  AND expiry_date <= $1::date + $2::int
		ORDER BY expiry_date ASC, batch_id ASC`
	list, err := r.queryBatches(ctx, query, from, days)
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	return list, nil
}

// DeductStock resta qty. El CHECK stock_units >= 0 de la tabla convierte un
// sobreconsumo en error de la tx completa.
func (r *BatchRepo) DeductStock(ctx context.Context, batchID int64, qty decimal.Decimal) error {
	query := `UPDATE batches SET stock_units = stock_units - $1 WHERE batch_id = $2`
	tag, err := r.q.Exec(ctx, query, qty, batchID)
	if err != nil {
		return fmt.Errorf("deduct stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deduct stock: lote %d no existe", batchID)
	}
	return nil
}

// ZeroStock deja el lote en cero (recorte por vencimiento).
func (r *BatchRepo) ZeroStock(ctx context.Context, batchID int64) error {
	query := `UPDATE batches SET stock_units = 0 WHERE batch_id = $1`
	if _, err := r.q.Exec(ctx, query, batchID); err != nil {
		return fmt.Errorf("zero stock: %w", err)
	}
	return nil
}

// SetStock fija el stock absoluto (ajuste manual).
func (r *BatchRepo) SetStock(ctx context.Context, batchID int64, qty decimal.Decimal) error {
	query := `UPDATE batches SET stock_units = $1 WHERE batch_id = $2`
	tag, err := r.q.Exec(ctx, query, qty, batchID)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set stock: lote %d no existe", batchID)
	}
	return nil
}

// UpsertReceive incrementa stock del lote (medicineID, batchNo), creándolo si
// no existe; la expiry nueva pisa a la vieja solo si viene informada.
func (r *BatchRepo) UpsertReceive(ctx context.Context, medicineID, batchNo string, qty decimal.Decimal, expiry *time.Time) (*entity.Batch, error) {
	query := `
		INSERT INTO batches (medicine_id, batch_no, stock_units, expiry_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (medicine_id, batch_no) DO UPDATE SET
			stock_units = batches.stock_units + EXCLUDED.stock_units,
			expiry_date = COALESCE(EXCLUDED.expiry_date, batches.expiry_date)
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(ctx, query, medicineID, batchNo, qty, expiry))
	if err != nil {
		return nil, fmt.Errorf("upsert receive: %w", err)
	}
	return b, nil
}

// UpsertKeyed es el upsert por clave de la ingesta: fija stock y expiry absolutos.
func (r *BatchRepo) UpsertKeyed(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (medicine_id, batch_no, stock_units, expiry_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (medicine_id, batch_no) DO UPDATE SET
			stock_units = EXCLUDED.stock_units,
			expiry_date = EXCLUDED.expiry_date`
	_, err := r.q.Exec(ctx, query, b.MedicineID, b.BatchNo, b.StockUnits, b.ExpiryDate)
	if err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// AggregateStock suma el stock de todos los lotes del medicamento.
func (r *BatchRepo) AggregateStock(ctx context.Context, medicineID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(stock_units), 0) FROM batches WHERE medicine_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, medicineID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("aggregate stock: %w", err)
	}
	return total, nil
}
