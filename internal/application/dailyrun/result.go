package dailyrun

import (
	"time"

	"github.com/shopspring/decimal"
)

// State es el estado de la máquina del run:
// Idle → Guarded → Reclaiming → Allocating → Committed,
// o Idle → Skipped (guardia), o cualquiera → Failed (error de datos).
type State string

const (
	StateIdle       State = "idle"
	StateGuarded    State = "guarded"
	StateReclaiming State = "reclaiming"
	StateAllocating State = "allocating"
	StateCommitted  State = "committed"
	StateSkipped    State = "skipped"
	StateFailed     State = "failed"
)

// Terminal indica si el estado es final.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateSkipped || s == StateFailed
}

// ItemResult resume la asignación de un medicamento en el run.
type ItemResult struct {
	MedicineID string          `json:"medicine_id"`
	Required   decimal.Decimal `json:"required"`
	Consumed   decimal.Decimal `json:"consumed"`
	Shortfall  decimal.Decimal `json:"shortfall"`
}

// RunResult es el resumen del run que consumen el CLI y el endpoint HTTP.
// Un caller automatizado distingue "ya aplicado" (skipped), fallo (failed)
// y "completado con N shortfalls" (committed + Shortfalls).
type RunResult struct {
	RunID          string          `json:"run_id"`
	Date           string          `json:"date"` // YYYY-MM-DD
	State          State           `json:"state"`
	Forced         bool            `json:"forced"`
	ExpiredBatches int             `json:"expired_batches"`
	ExpiredUnits   decimal.Decimal `json:"expired_units"`
	Items          []ItemResult    `json:"items"`
	Shortfalls     int             `json:"shortfalls"`
	Warnings       []string        `json:"warnings,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// formatDate serializa la fecha calendario del run.
func formatDate(t time.Time) string { return t.Format("2006-01-02") }
