package inventory

import (
	"context"

	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesitan las operaciones manuales de stock. La mutación del
// lote y su movimiento de balance se confirman juntos o ninguno de los dos
// (invariante de conciliación bajo uso manual concurrente).
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
		medicineRepo repository.MedicineRepository,
	) error) error
}
