package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// MedicineStockResult es el stock agregado de un medicamento (suma de lotes).
type MedicineStockResult struct {
	MedicineID   string
	Name         string
	TotalStock   decimal.Decimal
	ReorderLevel decimal.Decimal
}

// ReorderAlertResult es una alerta de stock bajo para medicamentos con pauta diaria.
type ReorderAlertResult struct {
	MedicineID   string
	Name         string
	TotalStock   decimal.Decimal
	ReorderLevel decimal.Decimal
	UnitsPerDay  decimal.Decimal
	AlertLevel   decimal.Decimal // 1.5 × reorder_level
	DaysCover    decimal.Decimal // total_stock / units_per_day
}

// InventoryTotals alimenta las métricas del resumen del tablero.
type InventoryTotals struct {
	Medicines     int
	Batches       int
	UnitsInStock  decimal.Decimal
	DailyPlanMeds int
}

// ReportRepository define consultas read-only para el tablero y las alertas.
// No participa en el run diario: es la superficie que consumen los colaboradores.
type ReportRepository interface {
	GetTotals(ctx context.Context) (*InventoryTotals, error)
	ListStockByMedicine(ctx context.Context) ([]MedicineStockResult, error)
	// ListBelowReorder: total_stock <= reorder_level, todos los medicamentos.
	ListBelowReorder(ctx context.Context) ([]MedicineStockResult, error)
	// ListReorderAlerts: solo medicamentos con pauta diaria y reorder_level > 0,
	// alerta cuando total_stock < 1.5 × reorder_level.
	ListReorderAlerts(ctx context.Context) ([]ReorderAlertResult, error)
}
