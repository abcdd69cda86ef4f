package domain

// RejectedRecord descreve um registro bruto recusado durante a validação,
// com o índice do registro no lote original e o motivo da recusa
type RejectedRecord struct {
	Index     int    `json:"index"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Reason    string `json:"reason"`
}

// Motivos de recusa de registros individuais
const (
	ReasonMissingInvoiceID   = "missing_invoice_id"
	ReasonMissingDate        = "missing_date"
	ReasonInvalidDate        = "invalid_date"
	ReasonInvalidNumber      = "invalid_number"
	ReasonNegativeUnitPrice  = "negative_unit_price"
	ReasonInvalidQuantity    = "invalid_quantity"
	ReasonNegativeTotal      = "negative_total"
	ReasonRatingOutOfRange   = "rating_out_of_range"
	ReasonDuplicateInvoiceID = "duplicate_invoice_id"
	ReasonMissingTotal       = "missing_total"
)

// IngestionResult resume o processamento de um lote de ingestão
type IngestionResult struct {
	BatchID        string           `json:"batch_id"`
	Received       int              `json:"received"`
	Inserted       int              `json:"inserted"`
	Rejected       []RejectedRecord `json:"rejected"`
	DuplicateCount int              `json:"duplicate_count"`
}
