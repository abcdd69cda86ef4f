package validating

import (
	"testing"
	"time"

	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestService_Validate(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		batch    []domain.RawRecord
		validate func(t *testing.T, result *Result, err error)
	}{
		{
			name: "Lote com duplicata e total derivado - mantém a primeira ocorrência",
			batch: []domain.RawRecord{
				{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10", "quantity": "2"},
				{"invoice_id": "INV002", "date": "2023-01-02", "unit_price": "20", "quantity": "3"},
				{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10", "quantity": "2"},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 2)
				assert.Equal(t, 1, result.DuplicateCount)

				assert.Equal(t, "INV001", result.Sales[0].InvoiceID)
				assert.Equal(t, 20.0, result.Sales[0].Total)
				assert.Equal(t, "INV002", result.Sales[1].InvoiceID)
				assert.Equal(t, 60.0, result.Sales[1].Total)

				assert.Len(t, result.Rejected, 1)
				assert.Equal(t, 2, result.Rejected[0].Index)
				assert.Equal(t, "INV001", result.Rejected[0].InvoiceID)
				assert.Equal(t, domain.ReasonDuplicateInvoiceID, result.Rejected[0].Reason)
			},
		},
		{
			name: "Nomes de campos com aliases e capitalização variada",
			batch: []domain.RawRecord{
				{
					"Invoice Number":   "INV010",
					"Transaction-Date": "2023-03-15",
					"Price":            "5.5",
					"Qty":              "4",
					"Payment Method":   "Cash",
				},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 1)

				sale := result.Sales[0]
				assert.Equal(t, "INV010", sale.InvoiceID)
				assert.Equal(t, 5.5, sale.UnitPrice)
				assert.Equal(t, 4, sale.Quantity)
				assert.Equal(t, 22.0, sale.Total)
				assert.Equal(t, "Cash", sale.Payment)
				assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), sale.Date)
			},
		},
		{
			name: "Registros inválidos são recusados individualmente",
			batch: []domain.RawRecord{
				{"invoice_id": "INV020", "date": "2023-01-01", "total": "100"},
				{"invoice_id": "", "date": "2023-01-01", "total": "10"},
				{"invoice_id": "INV021", "date": "not-a-date", "total": "10"},
				{"invoice_id": "INV022", "date": "2023-01-01", "total": "abc"},
				{"invoice_id": "INV023", "date": "2023-01-01", "unit_price": "-5", "quantity": "2"},
				{"invoice_id": "INV024", "date": "2023-01-01", "unit_price": "5", "quantity": "0"},
				{"invoice_id": "INV025", "date": "2023-01-01", "total": "-10"},
				{"invoice_id": "INV026", "date": "2023-01-01", "total": "10", "rating": "11"},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 1)
				assert.Len(t, result.Rejected, 7)

				reasons := make([]string, 0, len(result.Rejected))
				for _, rejected := range result.Rejected {
					reasons = append(reasons, rejected.Reason)
				}
				assert.Equal(t, []string{
					domain.ReasonMissingInvoiceID,
					domain.ReasonInvalidDate,
					domain.ReasonInvalidNumber,
					domain.ReasonNegativeUnitPrice,
					domain.ReasonInvalidQuantity,
					domain.ReasonNegativeTotal,
					domain.ReasonRatingOutOfRange,
				}, reasons)
			},
		},
		{
			name: "Campos financeiros derivados quando ausentes",
			batch: []domain.RawRecord{
				{
					"invoice_id":              "INV030",
					"date":                    "2023-05-01",
					"unit_price":              "50",
					"quantity":                "2",
					"gross_margin_percentage": "4.761904762",
				},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 1)

				sale := result.Sales[0]
				assert.Equal(t, 100.0, sale.Total)
				assert.InDelta(t, 4.761904762, sale.GrossIncome, 0.0001)
				assert.InDelta(t, 95.238095238, sale.COGS, 0.0001)
			},
		},
		{
			name: "Rating ausente fica nulo em vez de zero",
			batch: []domain.RawRecord{
				{"invoice_id": "INV040", "date": "2023-01-01", "total": "10"},
				{"invoice_id": "INV041", "date": "2023-01-01", "total": "10", "rating": "7.5"},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 2)
				assert.Nil(t, result.Sales[0].Rating)
				if assert.NotNil(t, result.Sales[1].Rating) {
					assert.Equal(t, 7.5, *result.Sales[1].Rating)
				}
			},
		},
		{
			name: "Quantidade fracionária inteira é aceita",
			batch: []domain.RawRecord{
				{"invoice_id": "INV050", "date": "2023-01-01", "unit_price": "10", "quantity": "2.0"},
				{"invoice_id": "INV051", "date": "2023-01-01", "unit_price": "10", "quantity": "2.5"},
			},
			validate: func(t *testing.T, result *Result, err error) {
				assert.NoError(t, err)
				assert.Len(t, result.Sales, 1)
				assert.Equal(t, 2, result.Sales[0].Quantity)
				assert.Len(t, result.Rejected, 1)
				assert.Equal(t, domain.ReasonInvalidNumber, result.Rejected[0].Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Validate(tt.batch)
			tt.validate(t, result, err)
		})
	}
}

func TestService_Validate_SchemaError(t *testing.T) {
	service := NewService()

	tests := []struct {
		name    string
		batch   []domain.RawRecord
		missing []string
	}{
		{
			name: "Lote sem nenhuma coluna obrigatória",
			batch: []domain.RawRecord{
				{"foo": "bar"},
				{"baz": "qux"},
			},
			missing: []string{"invoice_id", "date", "total|unit_price+quantity"},
		},
		{
			name: "Lote sem coluna de valor",
			batch: []domain.RawRecord{
				{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10"},
			},
			missing: []string{"total|unit_price+quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Validate(tt.batch)

			assert.Nil(t, result)
			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.missing, schemaErr.MissingColumns)
		})
	}
}

// A soma dos totais canônicos deve bater com a soma de price × qty dos
// registros aceitos, e validar duas vezes o mesmo lote produz o mesmo resultado
func TestService_Validate_Conservation(t *testing.T) {
	service := NewService()

	batch := []domain.RawRecord{
		{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10", "quantity": "2"},
		{"invoice_id": "INV002", "date": "2023-01-02", "unit_price": "20", "quantity": "3"},
		{"invoice_id": "INV003", "date": "2023-01-03", "unit_price": "7.25", "quantity": "4"},
	}

	first, err := service.Validate(batch)
	assert.NoError(t, err)

	var sumTotals, sumDerived float64
	for _, sale := range first.Sales {
		sumTotals += sale.Total
		sumDerived += sale.UnitPrice * float64(sale.Quantity)
	}
	assert.Equal(t, sumDerived, sumTotals)

	second, err := service.Validate(batch)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
