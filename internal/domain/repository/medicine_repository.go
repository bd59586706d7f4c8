package repository

import (
	"context"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// MedicineRepository define el puerto de persistencia de medicamentos (DIP).
// El motor de aplicación diaria solo lee; las escrituras vienen de la ingesta.
type MedicineRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Medicine, error)
	Upsert(ctx context.Context, m *entity.Medicine) error
}
