package entity

// Supplier representa un proveedor de medicamentos.
// LeadTimeDays alimenta el cálculo externo del reorder level; el motor no lo usa.
type Supplier struct {
	ID           string
	Name         string
	LeadTimeDays int
}
