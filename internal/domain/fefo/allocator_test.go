package fefo_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/fefo"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func batch(id int64, stock string, expiry *time.Time) *entity.Batch {
	return &entity.Batch{
		BatchID:    id,
		MedicineID: "MED-001",
		BatchNo:    "L-" + decimal.NewFromInt(id).String(),
		StockUnits: d(stock),
		ExpiryDate: expiry,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden FEFO
// ──────────────────────────────────────────────────────────────────────────────

// El lote que vence antes va primero, el vencimiento nulo al final.
func TestSort_VencimientoTempranoPrimeroNuloAlFinal(t *testing.T) {
	batches := []*entity.Batch{
		batch(1, "10", nil),
		batch(2, "10", day("2026-03-01")),
		batch(3, "10", day("2026-01-15")),
	}
	fefo.Sort(batches)

	assert.Equal(t, int64(3), batches[0].BatchID, "el vencimiento más temprano va primero")
	assert.Equal(t, int64(2), batches[1].BatchID)
	assert.Equal(t, int64(1), batches[2].BatchID, "sin vencimiento va al final")
}

// Empate de vencimiento: desempata batch_id ascendente (orden de inserción).
func TestSort_EmpateDesempataPorBatchID(t *testing.T) {
	batches := []*entity.Batch{
		batch(7, "5", day("2026-02-01")),
		batch(3, "5", day("2026-02-01")),
		batch(5, "5", day("2026-02-01")),
	}
	fefo.Sort(batches)

	assert.Equal(t, int64(3), batches[0].BatchID)
	assert.Equal(t, int64(5), batches[1].BatchID)
	assert.Equal(t, int64(7), batches[2].BatchID)
}

// Dos lotes sin vencimiento también desempatan por batch_id.
func TestSort_SinVencimientoDesempataPorBatchID(t *testing.T) {
	batches := []*entity.Batch{
		batch(9, "5", nil),
		batch(4, "5", nil),
	}
	fefo.Sort(batches)

	assert.Equal(t, int64(4), batches[0].BatchID)
	assert.Equal(t, int64(9), batches[1].BatchID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignación
// ──────────────────────────────────────────────────────────────────────────────

// Caso clásico: dos lotes de 50 y 30, se necesitan 60 → 50 del primero y 10
// del segundo, sin shortfall.
func TestAllocate_ConsumeEnOrdenHastaCubrir(t *testing.T) {
	candidates := []*entity.Batch{
		batch(1, "50", day("2026-01-10")),
		batch(2, "30", day("2026-02-10")),
	}

	res := fefo.Allocate(candidates, d("60"), fefo.DefaultEpsilon)

	require.Len(t, res.Takes, 2)
	assert.Equal(t, int64(1), res.Takes[0].BatchID)
	assert.True(t, res.Takes[0].Qty.Equal(d("50")), "toma todo el primer lote")
	assert.Equal(t, int64(2), res.Takes[1].BatchID)
	assert.True(t, res.Takes[1].Qty.Equal(d("10")), "toma el resto del segundo")
	assert.True(t, res.Consumed.Equal(d("60")))
	assert.True(t, res.Shortfall.IsZero(), "no debe reportar shortfall")
}

// Stock insuficiente: consume lo que hay y reporta el faltante.
func TestAllocate_StockInsuficienteReportaShortfall(t *testing.T) {
	candidates := []*entity.Batch{
		batch(1, "2", day("2026-01-10")),
		batch(2, "1.5", nil),
	}

	res := fefo.Allocate(candidates, d("10"), fefo.DefaultEpsilon)

	assert.True(t, res.Consumed.Equal(d("3.5")))
	assert.True(t, res.Shortfall.Equal(d("6.5")), "faltante = necesidad - consumido")
}

// Sin candidatos: todo es shortfall.
func TestAllocate_SinCandidatosTodoEsShortfall(t *testing.T) {
	res := fefo.Allocate(nil, d("4"), fefo.DefaultEpsilon)

	assert.Empty(t, res.Takes)
	assert.True(t, res.Consumed.IsZero())
	assert.True(t, res.Shortfall.Equal(d("4")))
}

// Necesidad cero o negativa: no toma nada ni reporta shortfall.
func TestAllocate_NecesidadCeroNoTomaNada(t *testing.T) {
	candidates := []*entity.Batch{batch(1, "10", nil)}

	res := fefo.Allocate(candidates, decimal.Zero, fefo.DefaultEpsilon)

	assert.Empty(t, res.Takes)
	assert.True(t, res.Shortfall.IsZero())
}

// Restos por debajo de epsilon no cuentan como shortfall (dosis fraccionadas).
func TestAllocate_RestoBajoEpsilonNoEsShortfall(t *testing.T) {
	candidates := []*entity.Batch{batch(1, "0.9999999", nil)}

	res := fefo.Allocate(candidates, d("1"), fefo.DefaultEpsilon)

	assert.True(t, res.Consumed.Equal(d("0.9999999")))
	assert.True(t, res.Shortfall.IsZero(), "resto 1e-7 queda absorbido por epsilon")
}

// Con epsilon más estricto el mismo resto sí es shortfall.
func TestAllocate_EpsilonConfigurableCambiaLaFrontera(t *testing.T) {
	candidates := []*entity.Batch{batch(1, "0.9999999", nil)}

	res := fefo.Allocate(candidates, d("1"), d("0.00000001"))

	assert.True(t, res.Shortfall.GreaterThan(decimal.Zero))
}

// Allocate no muta el stock de los lotes recibidos: el plan es puro.
func TestAllocate_NoMutaLosLotes(t *testing.T) {
	b := batch(1, "50", day("2026-01-10"))
	_ = fefo.Allocate([]*entity.Batch{b}, d("20"), fefo.DefaultEpsilon)

	assert.True(t, b.StockUnits.Equal(d("50")), "el lote conserva su stock original")
}

// Lotes en cero se saltan sin generar tomas vacías.
func TestAllocate_SaltaLotesEnCero(t *testing.T) {
	candidates := []*entity.Batch{
		batch(1, "0", day("2026-01-10")),
		batch(2, "5", day("2026-02-10")),
	}

	res := fefo.Allocate(candidates, d("3"), fefo.DefaultEpsilon)

	require.Len(t, res.Takes, 1)
	assert.Equal(t, int64(2), res.Takes[0].BatchID)
}
