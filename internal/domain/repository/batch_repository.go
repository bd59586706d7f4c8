package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia de lotes.
// Los lotes nunca se borran: quedar en cero es historia, no eliminación.
type BatchRepository interface {
	GetByID(ctx context.Context, batchID int64) (*entity.Batch, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para el ajuste manual.
	GetByIDForUpdate(ctx context.Context, batchID int64) (*entity.Batch, error)

	// ListExpired devuelve lotes con stock > 0 y expiry_date no nulo estrictamente
	// anterior a runDate (candidatos a recorte por vencimiento).
	ListExpired(ctx context.Context, runDate time.Time) ([]*entity.Batch, error)

	// ListEligibleFEFO devuelve los lotes con stock > 0 de un medicamento cuya
	// expiry_date es nula o >= runDate, ya ordenados por el comparador FEFO
	// (vencimiento nulo al final, vencimiento asc, batch_id asc).
	ListEligibleFEFO(ctx context.Context, medicineID string, runDate time.Time) ([]*entity.Batch, error)

	// ListFEFO lista lotes en orden FEFO para el tablero, con filtros opcionales.
	ListFEFO(ctx context.Context, medicineID string, onlyInStock bool) ([]*entity.Batch, error)

	// ListExpiringWithin devuelve lotes con stock que vencen dentro de days días.
	ListExpiringWithin(ctx context.Context, from time.Time, days int) ([]*entity.Batch, error)

	// DeductStock resta qty del lote. La restricción stock_units >= 0 de la tabla
	// es la red de seguridad contra sobreconsumo.
	DeductStock(ctx context.Context, batchID int64, qty decimal.Decimal) error

	// ZeroStock deja el lote en cero (recorte por vencimiento).
	ZeroStock(ctx context.Context, batchID int64) error

	// SetStock fija el stock absoluto (ajuste manual).
	SetStock(ctx context.Context, batchID int64, qty decimal.Decimal) error

	// UpsertReceive incrementa stock del lote (medicineID, batchNo), creándolo si
	// no existe; conserva la expiry conocida si la nueva viene vacía. Devuelve el
	// lote resultante para que el caller registre el movimiento de recepción.
	UpsertReceive(ctx context.Context, medicineID, batchNo string, qty decimal.Decimal, expiry *time.Time) (*entity.Batch, error)

	// UpsertKeyed es el upsert por clave de la ingesta: fija valores absolutos.
	UpsertKeyed(ctx context.Context, b *entity.Batch) error

	// AggregateStock suma el stock de todos los lotes de un medicamento.
	AggregateStock(ctx context.Context, medicineID string) (decimal.Decimal, error)
}
