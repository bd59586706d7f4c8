package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// AdjustInput entrada para fijar un lote a una cantidad absoluta.
type AdjustInput struct {
	BatchID     int64
	NewQuantity decimal.Decimal // >= 0
	Note        string
}

// AdjustResult informa el delta aplicado.
type AdjustResult struct {
	BatchID     int64           `json:"batch_id"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Delta       decimal.Decimal `json:"delta"`
}

// Adjust fija el stock del lote al valor absoluto pedido y registra el
// movimiento 'adjustment' de balance con delta = nuevo − viejo, en una sola
// transacción. Bloquea la fila del lote (SELECT FOR UPDATE) para que el delta
// calculado corresponda exactamente al cambio aplicado.
func (uc *StockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.NewQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrNegativeStock
	}
	var result *AdjustResult
	err := uc.txRunner.RunInventory(ctx, func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
		_ repository.MedicineRepository,
	) error {
		batch, err := batchRepo.GetByIDForUpdate(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		// Cantidad previa capturada antes de mutar: SetStock puede escribir
		// sobre la misma entidad que devolvió el repositorio.
		old := batch.StockUnits
		delta := in.NewQuantity.Sub(old)
		if err := batchRepo.SetStock(ctx, in.BatchID, in.NewQuantity); err != nil {
			return fmt.Errorf("ajustar lote %d: %w", in.BatchID, err)
		}
		note := in.Note
		if note == "" {
			note = "Manual adjustment"
		}
		batchID := batch.BatchID
		move := &entity.StockMove{
			TS:         time.Now(),
			MedicineID: batch.MedicineID,
			BatchID:    &batchID,
			QtyChange:  delta,
			Reason:     entity.MoveReasonAdjustment,
			Note:       note,
		}
		if err := moveRepo.Append(ctx, move); err != nil {
			return fmt.Errorf("registrar ajuste: %w", err)
		}
		result = &AdjustResult{
			BatchID:     batch.BatchID,
			OldQuantity: old,
			NewQuantity: in.NewQuantity,
			Delta:       delta,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
