package domain

import "time"

// Sale representa um registro canônico de venda armazenado no ledger.
// O invoice_id é único em todo o ledger.
type Sale struct {
	ID                    int64     `json:"id,omitempty"`
	InvoiceID             string    `json:"invoice_id"`
	Branch                string    `json:"branch"`
	City                  string    `json:"city"`
	CustomerType          string    `json:"customer_type"`
	Gender                string    `json:"gender"`
	ProductLine           string    `json:"product_line"`
	UnitPrice             float64   `json:"unit_price"`
	Quantity              int       `json:"quantity"`
	Total                 float64   `json:"total"`
	Date                  time.Time `json:"date"`
	Time                  string    `json:"time,omitempty"`
	Payment               string    `json:"payment"`
	COGS                  float64   `json:"cogs"`
	GrossMarginPercentage float64   `json:"gross_margin_percentage"`
	GrossIncome           float64   `json:"gross_income"`
	Rating                *float64  `json:"rating,omitempty"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
	UpdatedAt             time.Time `json:"updated_at,omitempty"`
}

// RawRecord representa um registro bruto de venda recebido na ingestão,
// mapeando nome de campo para o valor ainda não normalizado.
type RawRecord map[string]string
