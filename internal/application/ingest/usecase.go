// Package ingest carga la planilla de inventario contra el Ledger Store con
// upserts explícitos por clave (nada de borrar-e-insertar) y sin emitir
// movimientos: la ingesta fija estado base, no eventos del libro.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// UseCase aplica un Workbook completo dentro de una transacción.
type UseCase struct {
	txRunner TxRunner
}

// NewUseCase construye el caso de uso de ingesta.
func NewUseCase(txRunner TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner}
}

// Summary cuenta las filas aplicadas por tabla.
type Summary struct {
	Suppliers int `json:"suppliers"`
	Medicines int `json:"medicines"`
	Batches   int `json:"batches"`
	Dosages   int `json:"dosages"`
}

// Apply normaliza el workbook y hace los upserts por clave en una transacción:
// claves recortadas, stock negativo llevado a cero y filas de lote duplicadas
// por (medicine_id, batch_no) resueltas quedándose con la última.
func (uc *UseCase) Apply(ctx context.Context, wb *Workbook) (*Summary, error) {
	norm := normalize(wb)
	sum := &Summary{}

	err := uc.txRunner.RunIngest(ctx, func(
		supplierRepo repository.SupplierRepository,
		medicineRepo repository.MedicineRepository,
		batchRepo repository.BatchRepository,
		dosageRepo repository.DosageRepository,
	) error {
		for _, s := range norm.Suppliers {
			if err := supplierRepo.Upsert(ctx, &entity.Supplier{
				ID: s.ID, Name: s.Name, LeadTimeDays: s.LeadTimeDays,
			}); err != nil {
				return fmt.Errorf("upsert proveedor %s: %w", s.ID, err)
			}
			sum.Suppliers++
		}
		for _, m := range norm.Medicines {
			if err := medicineRepo.Upsert(ctx, &entity.Medicine{
				ID:           m.ID,
				Name:         m.Name,
				Salt:         m.Salt,
				Uses:         m.Uses,
				DailyDose:    m.DailyDose,
				SupplierID:   m.SupplierID,
				ReorderLevel: m.ReorderLevel,
			}); err != nil {
				return fmt.Errorf("upsert medicamento %s: %w", m.ID, err)
			}
			sum.Medicines++
		}
		for _, b := range norm.Batches {
			if err := batchRepo.UpsertKeyed(ctx, &entity.Batch{
				MedicineID: b.MedicineID,
				BatchNo:    b.BatchNo,
				StockUnits: b.StockUnits,
				ExpiryDate: b.ExpiryDate,
			}); err != nil {
				return fmt.Errorf("upsert lote %s/%s: %w", b.MedicineID, b.BatchNo, err)
			}
			sum.Batches++
		}
		for _, d := range norm.Dosages {
			if err := dosageRepo.Upsert(ctx, &entity.DosagePlan{
				MedicineID:      d.MedicineID,
				BeforeBreakfast: d.BeforeBreakfast,
				AfterBreakfast:  d.AfterBreakfast,
				Evening:         d.Evening,
				AfterDinner:     d.AfterDinner,
			}); err != nil {
				return fmt.Errorf("upsert pauta %s: %w", d.MedicineID, err)
			}
			sum.Dosages++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// normalize limpia el workbook antes de persistir.
func normalize(wb *Workbook) *Workbook {
	out := &Workbook{}

	for _, s := range wb.Suppliers {
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)
		if s.ID == "" {
			continue
		}
		out.Suppliers = append(out.Suppliers, s)
	}

	for _, m := range wb.Medicines {
		m.ID = strings.TrimSpace(m.ID)
		m.SupplierID = strings.TrimSpace(m.SupplierID)
		if m.ID == "" {
			continue
		}
		out.Medicines = append(out.Medicines, m)
	}

	// Lotes: clave recortada, stock >= 0, duplicados resueltos con la última fila.
	seen := make(map[string]int)
	for _, b := range wb.Batches {
		b.MedicineID = strings.TrimSpace(b.MedicineID)
		b.BatchNo = strings.TrimSpace(b.BatchNo)
		if b.MedicineID == "" || b.BatchNo == "" {
			continue
		}
		if b.StockUnits.LessThan(decimal.Zero) {
			b.StockUnits = decimal.Zero
		}
		key := b.MedicineID + "\x00" + b.BatchNo
		if idx, ok := seen[key]; ok {
			out.Batches[idx] = b
			continue
		}
		seen[key] = len(out.Batches)
		out.Batches = append(out.Batches, b)
	}

	for _, d := range wb.Dosages {
		d.MedicineID = strings.TrimSpace(d.MedicineID)
		if d.MedicineID == "" {
			continue
		}
		out.Dosages = append(out.Dosages, d)
	}

	return out
}
