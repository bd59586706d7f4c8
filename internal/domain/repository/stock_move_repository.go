package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// StockMoveRepository define el puerto del libro de movimientos (append-only).
// No hay Update ni Delete: los movimientos son inmutables.
type StockMoveRepository interface {
	Append(ctx context.Context, move *entity.StockMove) error

	// ExistsConsumptionOn indica si ya existe un movimiento 'consumption' cuyo
	// timestamp cae en la fecha calendario dada (guardia de idempotencia).
	ExistsConsumptionOn(ctx context.Context, date time.Time) (bool, error)

	// List filtra por razón y/o fecha calendario; reason vacío = todas.
	List(ctx context.Context, reason string, date *time.Time, limit int) ([]*entity.StockMove, error)

	// SumDeltasByBatch reproduce el libro: suma de qty_change por lote
	// (para verificar el invariante de conciliación desde reportes).
	SumDeltasByBatch(ctx context.Context, batchID int64) (decimal.Decimal, error)
}
