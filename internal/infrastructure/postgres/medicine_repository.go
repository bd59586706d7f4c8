package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
	"github.com/jhoicas/Botiquin-api/pkg/textutil"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, medicine_name, COALESCE(salt, ''), COALESCE(uses, ''), daily_dose, COALESCE(supplier_id, ''), reorder_level, created_at`

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Salt, &m.Uses, &m.DailyDose, &m.SupplierID, &m.ReorderLevel, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene un medicamento; nil sin error cuando no existe.
func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	m, err := scanMedicine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

// List lista medicamentos por nombre. La búsqueda es insensible a tildes: se
// normaliza en Go porque la extensión unaccent no está garantizada en la BD.
func (r *MedicineRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY medicine_name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	needle := textutil.Fold(strings.TrimSpace(search))
	var all []*entity.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		if needle != "" &&
			!strings.Contains(textutil.Fold(m.Name), needle) &&
			!strings.Contains(textutil.Fold(m.ID), needle) &&
			!strings.Contains(textutil.Fold(m.Salt), needle) {
			continue
		}
		all = append(all, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if offset >= len(all) {
		return []*entity.Medicine{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Upsert por clave (ingesta): fija los valores de la fila.
func (r *MedicineRepo) Upsert(ctx context.Context, m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, medicine_name, salt, uses, daily_dose, supplier_id, reorder_level)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7)
		ON CONFLICT (id) DO UPDATE SET
			medicine_name = EXCLUDED.medicine_name,
			salt          = EXCLUDED.salt,
			uses          = EXCLUDED.uses,
			daily_dose    = EXCLUDED.daily_dose,
			supplier_id   = EXCLUDED.supplier_id,
			reorder_level = EXCLUDED.reorder_level`
	_, err := r.q.Exec(ctx, query, m.ID, m.Name, m.Salt, m.Uses, m.DailyDose, m.SupplierID, m.ReorderLevel)
	if err != nil {
		return fmt.Errorf("upsert medicine: %w", err)
	}
	return nil
}
