package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// DashboardSummaryDTO resumen de cabecera del tablero.
type DashboardSummaryDTO struct {
	Medicines     int                `json:"medicines"`
	Batches       int                `json:"batches"`
	UnitsInStock  decimal.Decimal    `json:"units_in_stock"`
	DailyPlanMeds int                `json:"daily_plan_meds"`
	BelowReorder  []MedicineStockDTO `json:"below_reorder"`
}

// MedicineStockDTO stock agregado por medicamento.
type MedicineStockDTO struct {
	MedicineID   string          `json:"medicine_id"`
	Name         string          `json:"name"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// ReorderAlertDTO alerta de reposición con cobertura en días.
type ReorderAlertDTO struct {
	MedicineID   string          `json:"medicine_id"`
	Name         string          `json:"name"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	UnitsPerDay  decimal.Decimal `json:"units_per_day"`
	AlertLevel   decimal.Decimal `json:"alert_level"`
	DaysCover    decimal.Decimal `json:"days_cover"`
}

// BatchDTO lote con fecha de vencimiento opcional.
type BatchDTO struct {
	BatchID     int64           `json:"batch_id"`
	MedicineID  string          `json:"medicine_id"`
	BatchNo     string          `json:"batch_no"`
	StockUnits  decimal.Decimal `json:"stock_units"`
	ExpiryDate  string          `json:"expiry_date,omitempty"`
	LastUpdated string          `json:"last_updated"`
}

// MoveDTO asiento del libro de movimientos.
type MoveDTO struct {
	ID         int64           `json:"id"`
	TS         string          `json:"ts"`
	MedicineID string          `json:"medicine_id"`
	BatchID    *int64          `json:"batch_id,omitempty"`
	QtyChange  decimal.Decimal `json:"qty_change"`
	Reason     string          `json:"reason"`
	Note       string          `json:"note,omitempty"`
	RunID      string          `json:"run_id,omitempty"`
}

// MedicineDTO ficha de medicamento.
type MedicineDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Salt         string          `json:"salt,omitempty"`
	Uses         string          `json:"uses,omitempty"`
	DailyDose    decimal.Decimal `json:"daily_dose"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// FromStockResult convierte el resultado del repositorio.
func FromStockResult(s repository.MedicineStockResult) MedicineStockDTO {
	return MedicineStockDTO{
		MedicineID:   s.MedicineID,
		Name:         s.Name,
		TotalStock:   s.TotalStock,
		ReorderLevel: s.ReorderLevel,
	}
}

// FromStockResults convierte una lista de resultados (nunca devuelve nil).
func FromStockResults(list []repository.MedicineStockResult) []MedicineStockDTO {
	out := make([]MedicineStockDTO, 0, len(list))
	for _, s := range list {
		out = append(out, FromStockResult(s))
	}
	return out
}

// FromReorderAlerts convierte las alertas del repositorio.
func FromReorderAlerts(list []repository.ReorderAlertResult) []ReorderAlertDTO {
	out := make([]ReorderAlertDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ReorderAlertDTO{
			MedicineID:   a.MedicineID,
			Name:         a.Name,
			TotalStock:   a.TotalStock,
			ReorderLevel: a.ReorderLevel,
			UnitsPerDay:  a.UnitsPerDay,
			AlertLevel:   a.AlertLevel,
			DaysCover:    a.DaysCover,
		})
	}
	return out
}

// FromBatch convierte la entidad de dominio.
func FromBatch(b *entity.Batch) BatchDTO {
	dto := BatchDTO{
		BatchID:     b.BatchID,
		MedicineID:  b.MedicineID,
		BatchNo:     b.BatchNo,
		StockUnits:  b.StockUnits,
		LastUpdated: b.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
	}
	if b.ExpiryDate != nil {
		dto.ExpiryDate = b.ExpiryDate.Format("2006-01-02")
	}
	return dto
}

// FromBatches convierte una lista de lotes (nunca devuelve nil).
func FromBatches(list []*entity.Batch) []BatchDTO {
	out := make([]BatchDTO, 0, len(list))
	for _, b := range list {
		out = append(out, FromBatch(b))
	}
	return out
}

// FromMove convierte un asiento del libro.
func FromMove(m *entity.StockMove) MoveDTO {
	return MoveDTO{
		ID:         m.ID,
		TS:         m.TS.Format("2006-01-02T15:04:05Z07:00"),
		MedicineID: m.MedicineID,
		BatchID:    m.BatchID,
		QtyChange:  m.QtyChange,
		Reason:     m.Reason,
		Note:       m.Note,
		RunID:      m.RunID,
	}
}

// FromMoves convierte una lista de asientos (nunca devuelve nil).
func FromMoves(list []*entity.StockMove) []MoveDTO {
	out := make([]MoveDTO, 0, len(list))
	for _, m := range list {
		out = append(out, FromMove(m))
	}
	return out
}

// FromMedicine convierte la entidad de dominio.
func FromMedicine(m *entity.Medicine) MedicineDTO {
	return MedicineDTO{
		ID:           m.ID,
		Name:         m.Name,
		Salt:         m.Salt,
		Uses:         m.Uses,
		DailyDose:    m.DailyDose,
		SupplierID:   m.SupplierID,
		ReorderLevel: m.ReorderLevel,
	}
}

// FromMedicines convierte una lista de medicamentos (nunca devuelve nil).
func FromMedicines(list []*entity.Medicine) []MedicineDTO {
	out := make([]MedicineDTO, 0, len(list))
	for _, m := range list {
		out = append(out, FromMedicine(m))
	}
	return out
}
