package repository

import (
	"context"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia de proveedores.
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Upsert(ctx context.Context, s *entity.Supplier) error
}
