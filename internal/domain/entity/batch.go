package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote fechado de stock de un medicamento.
// BatchID es autogenerado y monótono creciente (bigserial): sirve de desempate FEFO.
// (MedicineID, BatchNo) es único. StockUnits nunca es negativo.
// Los lotes en cero no se borran: quedan como historia.
type Batch struct {
	BatchID     int64
	MedicineID  string
	BatchNo     string          // etiqueta humana del lote, única por medicamento
	StockUnits  decimal.Decimal // >= 0 siempre
	ExpiryDate  *time.Time      // nil = no vence nunca
	LastUpdated time.Time
}

// Expired indica si el lote está vencido estrictamente antes de runDate.
// Un lote que vence exactamente el día del run todavía es consumible ese día
// (el recorte usa < y la asignación usa >=; frontera heredada a propósito).
func (b *Batch) Expired(runDate time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(truncateToDay(runDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
