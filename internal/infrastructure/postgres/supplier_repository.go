package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID obtiene un proveedor; nil sin error cuando no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `SELECT supplier_id, supplier_name, lead_time_days FROM suppliers WHERE supplier_id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.LeadTimeDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// Upsert por clave (ingesta).
func (r *SupplierRepo) Upsert(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, supplier_name, lead_time_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (supplier_id) DO UPDATE SET
			supplier_name  = EXCLUDED.supplier_name,
			lead_time_days = EXCLUDED.lead_time_days`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.LeadTimeDays)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	return nil
}
