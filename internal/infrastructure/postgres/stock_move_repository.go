package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: el libro es append-only por contrato.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

// Append persiste un movimiento. Siempre parametrizado: nada de SQL armado con
// strings para el libro.
func (r *StockMoveRepo) Append(ctx context.Context, move *entity.StockMove) error {
	query := `
		INSERT INTO stock_moves (ts, medicine_id, batch_id, qty_change, reason, note, run_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		move.TS, move.MedicineID, move.BatchID, move.QtyChange, move.Reason, move.Note, move.RunID,
	).Scan(&move.ID)
	if err != nil {
		return fmt.Errorf("append stock move: %w", err)
	}
	return nil
}

// ExistsConsumptionOn responde la guardia de idempotencia: ¿hay algún
// movimiento 'consumption' cuyo timestamp cae en esa fecha calendario?
func (r *StockMoveRepo) ExistsConsumptionOn(ctx context.Context, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM stock_moves
			WHERE reason = $1 AND ts::date = $2::date
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, entity.MoveReasonConsumption, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists consumption on date: %w", err)
	}
	return exists, nil
}

// List filtra por razón y/o fecha calendario, más reciente primero.
func (r *StockMoveRepo) List(ctx context.Context, reason string, date *time.Time, limit int) ([]*entity.StockMove, error) {
	query := `
		SELECT id, ts, medicine_id, batch_id, qty_change, reason, COALESCE(note, ''), COALESCE(run_id, '')
		FROM stock_moves WHERE 1=1`
	var args []any
	pos := 1
	if reason != "" {
		query += fmt.Sprintf(" AND reason = $%d", pos)
		args = append(args, reason)
		pos++
	}
	if date != nil {
		query += fmt.Sprintf(" AND ts::date = $%d::date", pos)
		args = append(args, *date)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY ts DESC, id DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMove
	for rows.Next() {
		var m entity.StockMove
		if err := rows.Scan(&m.ID, &m.TS, &m.MedicineID, &m.BatchID, &m.QtyChange, &m.Reason, &m.Note, &m.RunID); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumDeltasByBatch reproduce el libro de un lote: la suma debe igualar su
// stock_units actual (invariante de conciliación).
func (r *StockMoveRepo) SumDeltasByBatch(ctx context.Context, batchID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(qty_change), 0) FROM stock_moves WHERE batch_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, batchID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum deltas by batch: %w", err)
	}
	return sum, nil
}
