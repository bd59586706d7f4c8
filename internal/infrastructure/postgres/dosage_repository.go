package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var _ repository.DosageRepository = (*DosageRepo)(nil)

// DosageRepo implementación sobre PostgreSQL (usable con pool o tx).
type DosageRepo struct {
	q Querier
}

// NewDosageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDosageRepository(q Querier) *DosageRepo {
	return &DosageRepo{q: q}
}

// ListDailyRequirements proyecta el requerimiento diario desde v_daily_units,
// solo entradas con units_per_day > 0.
func (r *DosageRepo) ListDailyRequirements(ctx context.Context) ([]entity.DailyRequirement, error) {
	query := `
		SELECT medicine_id, units_per_day
		FROM v_daily_units
		WHERE units_per_day > 0
		ORDER BY medicine_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list daily requirements: %w", err)
	}
	defer rows.Close()
	var list []entity.DailyRequirement
	for rows.Next() {
		var req entity.DailyRequirement
		if err := rows.Scan(&req.MedicineID, &req.UnitsPerDay); err != nil {
			return nil, fmt.Errorf("scan daily requirement: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// GetByMedicine obtiene la pauta de un medicamento; nil sin error si no hay.
func (r *DosageRepo) GetByMedicine(ctx context.Context, medicineID string) (*entity.DosagePlan, error) {
	query := `
		SELECT medicine_id, before_breakfast, after_breakfast, evening, after_dinner
		FROM daily_dosage WHERE medicine_id = $1`
	var p entity.DosagePlan
	err := r.q.QueryRow(ctx, query, medicineID).Scan(
		&p.MedicineID, &p.BeforeBreakfast, &p.AfterBreakfast, &p.Evening, &p.AfterDinner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dosage plan: %w", err)
	}
	return &p, nil
}

// Upsert por clave (ingesta).
func (r *DosageRepo) Upsert(ctx context.Context, p *entity.DosagePlan) error {
	query := `
		INSERT INTO daily_dosage (medicine_id, before_breakfast, after_breakfast, evening, after_dinner)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (medicine_id) DO UPDATE SET
			before_breakfast = EXCLUDED.before_breakfast,
			after_breakfast  = EXCLUDED.after_breakfast,
			evening          = EXCLUDED.evening,
			after_dinner     = EXCLUDED.after_dinner`
	_, err := r.q.Exec(ctx, query, p.MedicineID, p.BeforeBreakfast, p.AfterBreakfast, p.Evening, p.AfterDinner)
	if err != nil {
		return fmt.Errorf("upsert dosage plan: %w", err)
	}
	return nil
}
