package dailyrun

import (
	"context"

	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Todo el run diario (guardia + recorte +
// asignación) vive dentro de una sola transacción: o se aplica completo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
		dosageRepo repository.DosageRepository,
		medicineRepo repository.MedicineRepository,
	) error) error
}
