// Package fefo implementa la política First-Expired-First-Out como lógica de
// dominio pura: comparador de lotes y recorrido de asignación. No toca la base
// de datos; el orquestador del run persiste lo que este paquete decide.
package fefo

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
)

// DefaultEpsilon absorbe ruido de punto flotante en dosis fraccionadas.
// Es el valor por defecto; la tolerancia real llega por configuración.
var DefaultEpsilon = decimal.NewFromFloat(1e-6)

// Take es la decisión de consumir Qty unidades del lote BatchID.
type Take struct {
	BatchID int64
	Qty     decimal.Decimal
}

// Result es el plan de consumo de un medicamento para un día.
type Result struct {
	Takes     []Take
	Consumed  decimal.Decimal
	Shortfall decimal.Decimal // > epsilon cuando el stock elegible no alcanzó
}

// Less define el orden FEFO entre dos lotes: vencimiento nulo al final, luego
// vencimiento ascendente, y empate por batch_id ascendente (orden de inserción).
// Debe ser determinista y estable entre runs.
func Less(a, b *entity.Batch) bool {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate == nil:
		return a.BatchID < b.BatchID
	case a.ExpiryDate == nil:
		return false
	case b.ExpiryDate == nil:
		return true
	case a.ExpiryDate.Equal(*b.ExpiryDate):
		return a.BatchID < b.BatchID
	default:
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
}

// Sort ordena los lotes in situ según el comparador FEFO.
func Sort(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool { return Less(batches[i], batches[j]) })
}

// Allocate recorre los lotes candidatos en orden FEFO tomando
// min(stock, restante) de cada uno hasta cubrir need o agotar candidatos.
// No muta los lotes recibidos: devuelve el plan de tomas.
// Si el restante queda por encima de epsilon, lo reporta como Shortfall.
func Allocate(candidates []*entity.Batch, need decimal.Decimal, epsilon decimal.Decimal) Result {
	res := Result{Consumed: decimal.Zero, Shortfall: decimal.Zero}
	remaining := need

	for _, b := range candidates {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(b.StockUnits, remaining)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}
		res.Takes = append(res.Takes, Take{BatchID: b.BatchID, Qty: take})
		res.Consumed = res.Consumed.Add(take)
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(epsilon) {
		res.Shortfall = remaining
	}
	return res
}
