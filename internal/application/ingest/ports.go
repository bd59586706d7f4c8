package ingest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// TxRunner ejecuta la carga completa del workbook en una sola transacción.
type TxRunner interface {
	RunIngest(ctx context.Context, fn func(
		supplierRepo repository.SupplierRepository,
		medicineRepo repository.MedicineRepository,
		batchRepo repository.BatchRepository,
		dosageRepo repository.DosageRepository,
	) error) error
}

// Workbook es el contenido ya parseado de la planilla de inventario
// (hojas SuppliersTb, MedicinesTb, BatchesTb y DailyDosageTb).
// El adaptador de Excel lo produce; el caso de uso lo normaliza y persiste.
type Workbook struct {
	Suppliers []SupplierRow
	Medicines []MedicineRow
	Batches   []BatchRow
	Dosages   []DosageRow
}

// SupplierRow fila de la hoja SuppliersTb.
type SupplierRow struct {
	ID           string
	Name         string
	LeadTimeDays int
}

// MedicineRow fila de la hoja MedicinesTb.
type MedicineRow struct {
	ID           string
	Name         string
	Salt         string
	Uses         string
	DailyDose    decimal.Decimal
	SupplierID   string
	ReorderLevel decimal.Decimal
}

// BatchRow fila de la hoja BatchesTb.
type BatchRow struct {
	MedicineID string
	BatchNo    string
	StockUnits decimal.Decimal
	ExpiryDate *time.Time
}

// DosageRow fila de la hoja DailyDosageTb.
type DosageRow struct {
	MedicineID      string
	BeforeBreakfast decimal.Decimal
	AfterBreakfast  decimal.Decimal
	Evening         decimal.Decimal
	AfterDinner     decimal.Decimal
}
