package repository

import (
	"context"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// DosageRepository define el puerto del plan de dosificación diaria.
type DosageRepository interface {
	// ListDailyRequirements proyecta (medicine_id, units_per_day) solo para
	// entradas con units_per_day > 0 (vista v_daily_units).
	ListDailyRequirements(ctx context.Context) ([]entity.DailyRequirement, error)
	GetByMedicine(ctx context.Context, medicineID string) (*entity.DosagePlan, error)
	Upsert(ctx context.Context, p *entity.DosagePlan) error
}
