package dto

import "github.com/shopspring/decimal"

// ReceiveStockRequest entrada de stock a un lote (nuevo o existente).
type ReceiveStockRequest struct {
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate string          `json:"expiry_date"` // YYYY-MM-DD, vacío = sin vencimiento
	Note       string          `json:"note"`
}

// AdjustBatchRequest ajuste manual del stock de un lote a un valor absoluto.
type AdjustBatchRequest struct {
	BatchID     int64           `json:"batch_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Note        string          `json:"note"`
}

// RunRequest dispara la aplicación diaria de la pauta.
type RunRequest struct {
	Date  string `json:"date"`  // YYYY-MM-DD, vacío = hoy
	Force bool   `json:"force"` // repetir aunque el día ya esté aplicado
}
