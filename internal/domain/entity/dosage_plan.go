package entity

import "github.com/shopspring/decimal"

// DosagePlan representa la pauta diaria de un medicamento: cuatro franjas horarias.
// El total derivado es el requerimiento por día; un total en cero excluye al
// medicamento de la asignación (ni consumo ni shortfall).
type DosagePlan struct {
	MedicineID      string
	BeforeBreakfast decimal.Decimal
	AfterBreakfast  decimal.Decimal
	Evening         decimal.Decimal // toma de las 8 PM
	AfterDinner     decimal.Decimal
}

// UnitsPerDay devuelve la suma de las cuatro franjas.
func (p *DosagePlan) UnitsPerDay() decimal.Decimal {
	return p.BeforeBreakfast.Add(p.AfterBreakfast).Add(p.Evening).Add(p.AfterDinner)
}

// DailyRequirement es la proyección (medicamento, unidades/día) que consume el
// asignador FEFO. Solo se materializan entradas con UnitsPerDay > 0.
type DailyRequirement struct {
	MedicineID  string
	UnitsPerDay decimal.Decimal
}
