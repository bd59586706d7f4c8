// Package dailyrun orquesta la aplicación diaria del plan de dosificación:
// guardia de idempotencia, recorte de vencidos y deducción FEFO, todo dentro
// de una sola transacción durable.
package dailyrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/fefo"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// DefaultAnchorHour es la hora fija del día (20:00) con la que se registran los
// movimientos del run, para que el orden dentro del mismo día sea determinista.
const DefaultAnchorHour = 20

// RunUseCase es el orquestador del run diario.
type RunUseCase struct {
	txRunner   TxRunner
	epsilon    decimal.Decimal
	anchorHour int
}

// NewRunUseCase construye el orquestador. epsilon es la tolerancia de shortfall
// (decimal cero o negativo cae al valor por defecto 1e-6); anchorHour la hora
// ancla de los timestamps (fuera de 0..23 cae a 20).
func NewRunUseCase(txRunner TxRunner, epsilon decimal.Decimal, anchorHour int) *RunUseCase {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = fefo.DefaultEpsilon
	}
	if anchorHour < 0 || anchorHour > 23 {
		anchorHour = DefaultAnchorHour
	}
	return &RunUseCase{txRunner: txRunner, epsilon: epsilon, anchorHour: anchorHour}
}

// RunInput parámetros del run.
// At es el timestamp ancla explícito para los movimientos; en cero se deriva
// de Date a la hora ancla configurada (no hay reloj ambiente en el orquestador).
type RunInput struct {
	Date  time.Time
	Force bool
	At    time.Time
}

// Run ejecuta la secuencia guardia → recorte → asignación para una fecha.
// Reentrante: un segundo Run para la misma fecha sin Force termina en Skipped
// sin tocar el libro. Cualquier error de acceso a datos revierte la transacción
// completa y termina en Failed.
func (uc *RunUseCase) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	runDate := truncateToDay(in.Date)
	at := in.At
	if at.IsZero() {
		at = time.Date(runDate.Year(), runDate.Month(), runDate.Day(), uc.anchorHour, 0, 0, 0, runDate.Location())
	}

	res := &RunResult{
		RunID:        uuid.New().String(),
		Date:         formatDate(runDate),
		State:        StateIdle,
		Forced:       in.Force,
		ExpiredUnits: decimal.Zero,
	}

	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
		dosageRepo repository.DosageRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		applied, err := moveRepo.ExistsConsumptionOn(ctx, runDate)
		if err != nil {
			return fmt.Errorf("consultar guardia de idempotencia: %w", err)
		}
		if applied && !in.Force {
			return domain.ErrAlreadyApplied
		}
		res.State = StateGuarded

		res.State = StateReclaiming
		if err := uc.reclaimExpired(ctx, res, batchRepo, moveRepo, runDate, at); err != nil {
			return err
		}

		res.State = StateAllocating
		return uc.allocate(ctx, res, batchRepo, moveRepo, dosageRepo, medicineRepo, runDate, at)
	})

	switch {
	case errors.Is(err, domain.ErrAlreadyApplied):
		res.State = StateSkipped
		return res, nil
	case err != nil:
		res.State = StateFailed
		res.Error = err.Error()
		return res, err
	default:
		res.State = StateCommitted
		return res, nil
	}
}

// reclaimExpired deja en cero los lotes vencidos estrictamente antes de runDate
// y registra un movimiento 'expired' por lote con el delta negativo previo al
// recorte. Los lotes sin vencimiento nunca se recortan. Corre antes de la
// asignación para que el stock ya vencido no pueda consumirse en el mismo run.
// Un lote que vence exactamente en runDate no se recorta y sigue siendo
// consumible ese día (comparación estricta, frontera heredada a propósito).
func (uc *RunUseCase) reclaimExpired(
	ctx context.Context,
	res *RunResult,
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	runDate, at time.Time,
) error {
	expired, err := batchRepo.ListExpired(ctx, runDate)
	if err != nil {
		return fmt.Errorf("listar lotes vencidos: %w", err)
	}
	for _, b := range expired {
		// Cantidad previa al recorte: el asiento 'expired' la lleva como delta
		// negativo, y ZeroStock puede mutar la misma entidad que tenemos aquí.
		qty := b.StockUnits
		if qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if err := batchRepo.ZeroStock(ctx, b.BatchID); err != nil {
			return fmt.Errorf("recortar lote %d: %w", b.BatchID, err)
		}
		batchID := b.BatchID
		move := &entity.StockMove{
			TS:         at,
			MedicineID: b.MedicineID,
			BatchID:    &batchID,
			QtyChange:  qty.Neg(),
			Reason:     entity.MoveReasonExpired,
			Note:       fmt.Sprintf("Auto-scrap expired before %s", formatDate(runDate)),
			RunID:      res.RunID,
		}
		if err := moveRepo.Append(ctx, move); err != nil {
			return fmt.Errorf("registrar recorte del lote %d: %w", b.BatchID, err)
		}
		res.ExpiredBatches++
		res.ExpiredUnits = res.ExpiredUnits.Add(qty)
	}
	return nil
}

// allocate aplica la deducción FEFO por medicamento. Los shortfalls y las
// entradas de pauta que referencian medicamentos desconocidos se aíslan y se
// coleccionan: nunca abortan el run ni afectan a los demás medicamentos.
func (uc *RunUseCase) allocate(
	ctx context.Context,
	res *RunResult,
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	dosageRepo repository.DosageRepository,
	medicineRepo repository.MedicineRepository,
	runDate, at time.Time,
) error {
	reqs, err := dosageRepo.ListDailyRequirements(ctx)
	if err != nil {
		return fmt.Errorf("leer plan de dosificación: %w", err)
	}

	for _, req := range reqs {
		if req.UnitsPerDay.LessThanOrEqual(decimal.Zero) {
			continue
		}
		med, err := medicineRepo.GetByID(ctx, req.MedicineID)
		if err != nil {
			return fmt.Errorf("verificar medicamento %s: %w", req.MedicineID, err)
		}
		if med == nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("pauta diaria referencia medicamento desconocido %q: entrada omitida", req.MedicineID))
			continue
		}

		candidates, err := batchRepo.ListEligibleFEFO(ctx, req.MedicineID, runDate)
		if err != nil {
			return fmt.Errorf("listar lotes FEFO de %s: %w", req.MedicineID, err)
		}
		fefo.Sort(candidates)

		plan := fefo.Allocate(candidates, req.UnitsPerDay, uc.epsilon)
		for _, take := range plan.Takes {
			if err := batchRepo.DeductStock(ctx, take.BatchID, take.Qty); err != nil {
				return fmt.Errorf("deducir %s del lote %d: %w", take.Qty, take.BatchID, err)
			}
			batchID := take.BatchID
			move := &entity.StockMove{
				TS:         at,
				MedicineID: req.MedicineID,
				BatchID:    &batchID,
				QtyChange:  take.Qty.Neg(),
				Reason:     entity.MoveReasonConsumption,
				Note:       fmt.Sprintf("FEFO daily deduction %s", formatDate(runDate)),
				RunID:      res.RunID,
			}
			if err := moveRepo.Append(ctx, move); err != nil {
				return fmt.Errorf("registrar consumo del lote %d: %w", take.BatchID, err)
			}
		}

		if plan.Shortfall.GreaterThan(decimal.Zero) {
			move := &entity.StockMove{
				TS:         at,
				MedicineID: req.MedicineID,
				BatchID:    nil,
				QtyChange:  decimal.Zero,
				Reason:     entity.MoveReasonShortfall,
				Note:       fmt.Sprintf("Needed %s more units on %s", plan.Shortfall, formatDate(runDate)),
				RunID:      res.RunID,
			}
			if err := moveRepo.Append(ctx, move); err != nil {
				return fmt.Errorf("registrar shortfall de %s: %w", req.MedicineID, err)
			}
			res.Shortfalls++
		}

		res.Items = append(res.Items, ItemResult{
			MedicineID: req.MedicineID,
			Required:   req.UnitsPerDay,
			Consumed:   plan.Consumed,
			Shortfall:  plan.Shortfall,
		})
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
