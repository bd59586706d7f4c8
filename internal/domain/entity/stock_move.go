package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de movimiento de stock.
const (
	MoveReasonReceipt     = "receipt"     // entrada de stock
	MoveReasonConsumption = "consumption" // deducción FEFO diaria
	MoveReasonExpired     = "expired"     // recorte por vencimiento
	MoveReasonAdjustment  = "adjustment"  // ajuste manual a cantidad absoluta
	MoveReasonShortfall   = "shortfall"   // requerimiento diario no cubierto
)

// StockMove es un registro inmutable del libro de movimientos (append-only).
// Nunca se edita ni se borra: la suma de los deltas de un lote, reproducida desde
// su creación, debe igualar su stock_units actual (invariante de conciliación).
// BatchID es nil para los registros puros de shortfall.
type StockMove struct {
	ID         int64
	TS         time.Time
	MedicineID string
	BatchID    *int64
	QtyChange  decimal.Decimal // negativo en consumo/vencido, positivo en recepción
	Reason     string
	Note       string
	RunID      string // correlaciona los movimientos de un mismo run (vacío en manuales)
}
