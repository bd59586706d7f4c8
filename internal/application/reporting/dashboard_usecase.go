// Package reporting contiene los casos de uso read-only del tablero:
// resumen, stock por medicamento, alertas de reorden y vencimientos próximos.
// No muta el libro; es la superficie que consumen los colaboradores externos.
package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// DefaultExpiryWindowDays es la ventana por defecto de "vence pronto".
const DefaultExpiryWindowDays = 60

// DashboardUseCase genera las vistas del tablero.
type DashboardUseCase struct {
	reportRepo   repository.ReportRepository
	batchRepo    repository.BatchRepository
	moveRepo     repository.StockMoveRepository
	medicineRepo repository.MedicineRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	reportRepo repository.ReportRepository,
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	medicineRepo repository.MedicineRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		reportRepo:   reportRepo,
		batchRepo:    batchRepo,
		moveRepo:     moveRepo,
		medicineRepo: medicineRepo,
	}
}

// Summary devuelve las métricas de cabecera más los medicamentos bajo reorden.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*repository.InventoryTotals, []repository.MedicineStockResult, error) {
	totals, err := uc.reportRepo.GetTotals(ctx)
	if err != nil {
		return nil, nil, err
	}
	below, err := uc.reportRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, nil, err
	}
	return totals, below, nil
}

// StockByMedicine devuelve el stock agregado (suma de lotes) por medicamento.
func (uc *DashboardUseCase) StockByMedicine(ctx context.Context) ([]repository.MedicineStockResult, error) {
	return uc.reportRepo.ListStockByMedicine(ctx)
}

// ReorderAlerts lista los medicamentos de la pauta diaria con stock por debajo
// de 1.5 × reorder_level, con la cobertura en días.
func (uc *DashboardUseCase) ReorderAlerts(ctx context.Context) ([]repository.ReorderAlertResult, error) {
	return uc.reportRepo.ListReorderAlerts(ctx)
}

// ExpiringBatches lista lotes con stock que vencen dentro de days días
// (days <= 0 usa la ventana por defecto).
func (uc *DashboardUseCase) ExpiringBatches(ctx context.Context, from time.Time, days int) ([]*entity.Batch, error) {
	if days <= 0 {
		days = DefaultExpiryWindowDays
	}
	return uc.batchRepo.ListExpiringWithin(ctx, from, days)
}

// BatchesFEFO lista lotes en orden FEFO con filtros opcionales.
func (uc *DashboardUseCase) BatchesFEFO(ctx context.Context, medicineID string, onlyInStock bool) ([]*entity.Batch, error) {
	return uc.batchRepo.ListFEFO(ctx, medicineID, onlyInStock)
}

// BatchDetail es un lote junto con la suma de su libro de movimientos.
// Reconciled es true cuando la suma de deltas iguala el stock actual.
type BatchDetail struct {
	Batch      *entity.Batch
	LedgerSum  decimal.Decimal
	Reconciled bool
}

// BatchByID devuelve el detalle de un lote con su conciliación contra el libro.
// Devuelve nil si el lote no existe.
func (uc *DashboardUseCase) BatchByID(ctx context.Context, batchID int64) (*BatchDetail, error) {
	b, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	sum, err := uc.moveRepo.SumDeltasByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &BatchDetail{
		Batch:      b,
		LedgerSum:  sum,
		Reconciled: sum.Equal(b.StockUnits),
	}, nil
}

// Moves devuelve el historial de movimientos filtrado por razón y/o fecha.
func (uc *DashboardUseCase) Moves(ctx context.Context, reason string, date *time.Time, limit int) ([]*entity.StockMove, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	return uc.moveRepo.List(ctx, reason, date, limit)
}

// Medicines lista medicamentos con búsqueda opcional insensible a tildes.
func (uc *DashboardUseCase) Medicines(ctx context.Context, search string, limit, offset int) ([]*entity.Medicine, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	return uc.medicineRepo.List(ctx, search, limit, offset)
}

// MedicineStock devuelve el stock agregado de un medicamento puntual.
func (uc *DashboardUseCase) MedicineStock(ctx context.Context, medicineID string) (*repository.MedicineStockResult, error) {
	med, err := uc.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, nil
	}
	total, err := uc.batchRepo.AggregateStock(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	return &repository.MedicineStockResult{
		MedicineID:   med.ID,
		Name:         med.Name,
		TotalStock:   total,
		ReorderLevel: med.ReorderLevel,
	}, nil
}
