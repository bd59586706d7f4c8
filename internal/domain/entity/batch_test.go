package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// La frontera de vencimiento es estricta: un lote que vence exactamente el día
// del run todavía no está vencido ese día.
func TestBatchExpired_FronteraEstricta(t *testing.T) {
	expiry := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	b := &entity.Batch{BatchID: 1, StockUnits: decimal.NewFromInt(10), ExpiryDate: &expiry}

	assert.False(t, b.Expired(time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)),
		"vence hoy: sigue siendo consumible hoy")
	assert.True(t, b.Expired(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)),
		"al día siguiente ya está vencido")
	assert.False(t, b.Expired(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)))
}

func TestBatchExpired_SinVencimientoNuncaVence(t *testing.T) {
	b := &entity.Batch{BatchID: 1, StockUnits: decimal.NewFromInt(10)}

	assert.False(t, b.Expired(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)))
}
