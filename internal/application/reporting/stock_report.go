package reporting

import (
	"context"
	"time"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// StockReportData agrega todo lo que el informe PDF imprime.
type StockReportData struct {
	GeneratedAt time.Time
	Totals      *repository.InventoryTotals
	Stock       []repository.MedicineStockResult
	Alerts      []repository.ReorderAlertResult
	Expiring    []*entity.Batch
	// MedicineNames resuelve id → nombre para la tabla de vencimientos.
	MedicineNames map[string]string
}

// StockPDFGenerator renderiza el informe de existencias.
type StockPDFGenerator interface {
	Generate(ctx context.Context, data StockReportData) ([]byte, error)
}

// BuildStockReport reúne los datos del informe de existencias a fecha de ahora.
func (uc *DashboardUseCase) BuildStockReport(ctx context.Context, now time.Time) (StockReportData, error) {
	data := StockReportData{GeneratedAt: now}

	totals, err := uc.reportRepo.GetTotals(ctx)
	if err != nil {
		return data, err
	}
	data.Totals = totals

	stock, err := uc.reportRepo.ListStockByMedicine(ctx)
	if err != nil {
		return data, err
	}
	data.Stock = stock

	alerts, err := uc.reportRepo.ListReorderAlerts(ctx)
	if err != nil {
		return data, err
	}
	data.Alerts = alerts

	expiring, err := uc.batchRepo.ListExpiringWithin(ctx, now, DefaultExpiryWindowDays)
	if err != nil {
		return data, err
	}
	data.Expiring = expiring

	names := make(map[string]string, len(stock))
	for _, s := range stock {
		names[s.MedicineID] = s.Name
	}
	data.MedicineNames = names

	return data, nil
}
