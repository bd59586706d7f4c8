package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas read-only del tablero sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// GetTotals devuelve las métricas de cabecera del tablero.
func (r *ReportRepo) GetTotals(ctx context.Context) (*repository.InventoryTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM medicines),
			(SELECT COUNT(*) FROM batches),
			(SELECT COALESCE(SUM(stock_units), 0) FROM batches),
			(SELECT COUNT(*) FROM v_daily_units WHERE units_per_day > 0)`
	var t repository.InventoryTotals
	err := r.q.QueryRow(ctx, query).Scan(&t.Medicines, &t.Batches, &t.UnitsInStock, &t.DailyPlanMeds)
	if err != nil {
		return nil, fmt.Errorf("get totals: %w", err)
	}
	return &t, nil
}

// ListStockByMedicine suma el stock de los lotes por medicamento.
func (r *ReportRepo) ListStockByMedicine(ctx context.Context) ([]repository.MedicineStockResult, error) {
	query := `
		SELECT m.id, m.medicine_name,
		       COALESCE(SUM(b.stock_units), 0) AS total_stock,
		       m.reorder_level
		FROM medicines m
		LEFT JOIN batches b ON b.medicine_id = m.id
		GROUP BY m.id, m.medicine_name, m.reorder_level
		ORDER BY m.medicine_name`
	return r.queryStockResults(ctx, query)
}

// ListBelowReorder lista medicamentos con stock agregado <= reorder_level.
func (r *ReportRepo) ListBelowReorder(ctx context.Context) ([]repository.MedicineStockResult, error) {
	query := `
		SELECT m.id, m.medicine_name,
		       COALESCE(SUM(b.stock_units), 0) AS total_stock,
		       m.reorder_level
		FROM medicines m
		LEFT JOIN batches b ON b.medicine_id = m.id
		GROUP BY m.id, m.medicine_name, m.reorder_level
		HAVING COALESCE(SUM(b.stock_units), 0) <= m.reorder_level
		ORDER BY total_stock ASC, m.medicine_name`
	return r.queryStockResults(ctx, query)
}

func (r *ReportRepo) queryStockResults(ctx context.Context, query string) ([]repository.MedicineStockResult, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stock results: %w", err)
	}
	defer rows.Close()
	var list []repository.MedicineStockResult
	for rows.Next() {
		var s repository.MedicineStockResult
		if err := rows.Scan(&s.MedicineID, &s.Name, &s.TotalStock, &s.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan stock result: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListReorderAlerts: solo medicamentos con pauta diaria y reorder_level > 0;
// alerta cuando el stock agregado cae bajo 1.5 × reorder_level. days_cover es
// stock / units_per_day redondeado a un decimal.
func (r *ReportRepo) ListReorderAlerts(ctx context.Context) ([]repository.ReorderAlertResult, error) {
	query := `
		SELECT m.id, m.medicine_name,
		       COALESCE(SUM(b.stock_units), 0) AS total_stock,
		       m.reorder_level,
		       v.units_per_day,
		       ROUND(1.5 * m.reorder_level, 2) AS alert_level,
		       ROUND(COALESCE(SUM(b.stock_units), 0) / NULLIF(v.units_per_day, 0), 1) AS days_cover
		FROM medicines m
		JOIN v_daily_units v ON v.medicine_id = m.id
		LEFT JOIN batches b ON b.medicine_id = m.id
		GROUP BY m.id, m.medicine_name, m.reorder_level, v.units_per_day
		HAVING v.units_per_day > 0
		   AND m.reorder_level > 0
		   AND COALESCE(SUM(b.stock_units), 0) < 1.5 * m.reorder_level
		ORDER BY total_stock ASC, m.medicine_name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reorder alerts: %w", err)
	}
	defer rows.Close()
	var list []repository.ReorderAlertResult
	for rows.Next() {
		var a repository.ReorderAlertResult
		if err := rows.Scan(&a.MedicineID, &a.Name, &a.TotalStock, &a.ReorderLevel,
			&a.UnitsPerDay, &a.AlertLevel, &a.DaysCover); err != nil {
			return nil, fmt.Errorf("scan reorder alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
