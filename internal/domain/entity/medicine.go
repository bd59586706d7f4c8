package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del botiquín (creado por la ingesta, solo lectura
// para el motor de aplicación diaria).
// ReorderLevel es un umbral precalculado (LT × dosis diaria); el motor no lo recalcula.
type Medicine struct {
	ID           string // medicine_id estable (viene del Excel)
	Name         string
	Salt         string // composición
	Uses         string
	DailyDose    decimal.Decimal // legado: dosis diaria sugerida
	SupplierID   string          // opcional
	ReorderLevel decimal.Decimal
	CreatedAt    time.Time
}
