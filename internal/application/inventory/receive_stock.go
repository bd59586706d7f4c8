// Package inventory implementa las operaciones manuales de stock que el
// tablero expone sobre el libro: recepción de lotes y ajuste a cantidad
// absoluta. Cada operación emite su movimiento de balance en la misma
// transacción que la mutación del lote.
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

// StockUseCase agrupa recepción y ajuste manual.
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// ReceiveInput entrada para recibir stock de un lote.
type ReceiveInput struct {
	MedicineID string
	BatchNo    string
	Quantity   decimal.Decimal // > 0
	ExpiryDate *time.Time      // nil = sin vencimiento conocido
	Note       string
}

// Receive incrementa (o crea) el lote (medicine_id, batch_no) y registra un
// movimiento 'receipt' con el delta positivo, en una sola transacción.
func (uc *StockUseCase) Receive(ctx context.Context, in ReceiveInput) (*entity.Batch, error) {
	if in.MedicineID == "" || in.BatchNo == "" || in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var received *entity.Batch
	err := uc.txRunner.RunInventory(ctx, func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
		medicineRepo repository.MedicineRepository,
	) error {
		med, err := medicineRepo.GetByID(ctx, in.MedicineID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		batch, err := batchRepo.UpsertReceive(ctx, in.MedicineID, in.BatchNo, in.Quantity, in.ExpiryDate)
		if err != nil {
			return fmt.Errorf("recibir lote %s/%s: %w", in.MedicineID, in.BatchNo, err)
		}
		note := in.Note
		if note == "" {
			note = "Stock receipt"
		}
		batchID := batch.BatchID
		move := &entity.StockMove{
			TS:         time.Now(),
			MedicineID: in.MedicineID,
			BatchID:    &batchID,
			QtyChange:  in.Quantity,
			Reason:     entity.MoveReasonReceipt,
			Note:       note,
		}
		if err := moveRepo.Append(ctx, move); err != nil {
			return fmt.Errorf("registrar recepción: %w", err)
		}
		received = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}
