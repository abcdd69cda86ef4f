package validating

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/internal/domain"
)

// RecordValidator define a interface do validador de lotes de vendas
type RecordValidator interface {
	// Validate transforma um lote de registros brutos em registros canônicos,
	// acumulando as recusas individuais. Retorna SchemaError apenas quando o
	// lote inteiro é irreconhecível.
	Validate(batch []domain.RawRecord) (*Result, error)
}

// Result é a saída da validação de um lote
type Result struct {
	Sales          []*domain.Sale          `json:"sales"`
	Rejected       []domain.RejectedRecord `json:"rejected"`
	DuplicateCount int                     `json:"duplicate_count"`
}

type service struct{}

// NewService cria uma nova instância do validador de registros
func NewService() RecordValidator {
	return &service{}
}

// Formatos de data aceitos nos registros brutos
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Aliases de nomes de campos após a normalização
var fieldAliases = map[string]string{
	"invoice":              "invoice_id",
	"invoice_number":       "invoice_id",
	"product":              "product_line",
	"customer":             "customer_type",
	"gross_margin_percent": "gross_margin_percentage",
	"gross_margin_pct":     "gross_margin_percentage",
	"payment_method":       "payment",
	"qty":                  "quantity",
	"price":                "unit_price",
	"total_amount":         "total",
	"transaction_date":     "date",
	"customer_rating":      "rating",
	"cost_of_goods_sold":   "cogs",
	"gross_income_amount":  "gross_income",
}

func (s *service) Validate(batch []domain.RawRecord) (*Result, error) {
	normalized := make([]domain.RawRecord, len(batch))
	for i, record := range batch {
		normalized[i] = normalizeFieldNames(record)
	}

	// O lote inteiro é recusado somente quando nenhum registro traz as
	// colunas mínimas para reconstruir uma venda
	if missing := missingRequiredColumns(normalized); len(missing) > 0 {
		return nil, &SchemaError{MissingColumns: missing}
	}

	result := &Result{
		Sales:    make([]*domain.Sale, 0, len(batch)),
		Rejected: make([]domain.RejectedRecord, 0),
	}

	seenInvoices := make(map[string]bool)

	for i, record := range normalized {
		sale, reason := coerceRecord(record)
		if reason != "" {
			result.Rejected = append(result.Rejected, domain.RejectedRecord{
				Index:     i,
				InvoiceID: record["invoice_id"],
				Reason:    reason,
			})
			continue
		}

		// Deduplicação por invoice_id mantendo a primeira ocorrência
		if seenInvoices[sale.InvoiceID] {
			result.DuplicateCount++
			result.Rejected = append(result.Rejected, domain.RejectedRecord{
				Index:     i,
				InvoiceID: sale.InvoiceID,
				Reason:    domain.ReasonDuplicateInvoiceID,
			})
			continue
		}

		seenInvoices[sale.InvoiceID] = true
		result.Sales = append(result.Sales, sale)
	}

	logrus.WithFields(logrus.Fields{
		"received":   len(batch),
		"valid":      len(result.Sales),
		"rejected":   len(result.Rejected),
		"duplicates": result.DuplicateCount,
	}).Info("Validação de lote de vendas concluída")

	return result, nil
}

// normalizeFieldNames converte os nomes de campos para o formato canônico
// (minúsculas, espaços e hífens como underscore) e resolve aliases
func normalizeFieldNames(record domain.RawRecord) domain.RawRecord {
	normalized := make(domain.RawRecord, len(record))
	for name, value := range record {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		key = strings.ReplaceAll(key, "-", "_")

		if alias, ok := fieldAliases[key]; ok {
			key = alias
		}

		normalized[key] = strings.TrimSpace(value)
	}
	return normalized
}

// missingRequiredColumns verifica se o lote possui as colunas mínimas:
// invoice_id, date e (total ou unit_price+quantity). Retorna as ausentes.
func missingRequiredColumns(batch []domain.RawRecord) []string {
	present := make(map[string]bool)
	for _, record := range batch {
		for key := range record {
			present[key] = true
		}
	}

	var missing []string
	if !present["invoice_id"] {
		missing = append(missing, "invoice_id")
	}
	if !present["date"] {
		missing = append(missing, "date")
	}
	if !present["total"] && !(present["unit_price"] && present["quantity"]) {
		missing = append(missing, "total|unit_price+quantity")
	}

	return missing
}

// coerceRecord converte um registro bruto normalizado em uma venda canônica.
// Retorna o motivo da recusa quando o registro é inválido.
func coerceRecord(record domain.RawRecord) (*domain.Sale, string) {
	invoiceID := record["invoice_id"]
	if invoiceID == "" {
		return nil, domain.ReasonMissingInvoiceID
	}

	dateStr := record["date"]
	if dateStr == "" {
		return nil, domain.ReasonMissingDate
	}

	date, ok := parseDate(dateStr)
	if !ok {
		return nil, domain.ReasonInvalidDate
	}

	unitPrice, hasUnitPrice, ok := parseFloatField(record, "unit_price")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}

	quantity, hasQuantity, ok := parseIntField(record, "quantity")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}

	total, hasTotal, ok := parseFloatField(record, "total")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}

	// Deriva o total quando ausente: unit_price × quantity
	if !hasTotal {
		if !hasUnitPrice || !hasQuantity {
			return nil, domain.ReasonMissingTotal
		}
		total = unitPrice * float64(quantity)
	}

	grossMargin, _, ok := parseFloatField(record, "gross_margin_percentage")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}

	grossIncome, hasGrossIncome, ok := parseFloatField(record, "gross_income")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}
	if !hasGrossIncome {
		grossIncome = total * grossMargin / 100
	}

	cogs, hasCOGS, ok := parseFloatField(record, "cogs")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}
	if !hasCOGS {
		cogs = total - grossIncome
	}

	rating, hasRating, ok := parseFloatField(record, "rating")
	if !ok {
		return nil, domain.ReasonInvalidNumber
	}

	// Invariantes numéricas do registro canônico
	if hasUnitPrice && unitPrice < 0 {
		return nil, domain.ReasonNegativeUnitPrice
	}
	if hasQuantity && quantity < 1 {
		return nil, domain.ReasonInvalidQuantity
	}
	if total < 0 {
		return nil, domain.ReasonNegativeTotal
	}
	if hasRating && (rating < 0 || rating > 10) {
		return nil, domain.ReasonRatingOutOfRange
	}

	sale := &domain.Sale{
		InvoiceID:             invoiceID,
		Branch:                record["branch"],
		City:                  record["city"],
		CustomerType:          record["customer_type"],
		Gender:                record["gender"],
		ProductLine:           record["product_line"],
		UnitPrice:             unitPrice,
		Quantity:              quantity,
		Total:                 total,
		Date:                  date,
		Time:                  record["time"],
		Payment:               record["payment"],
		COGS:                  cogs,
		GrossMarginPercentage: grossMargin,
		GrossIncome:           grossIncome,
	}

	if hasRating {
		sale.Rating = &rating
	}

	return sale, ""
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// parseFloatField retorna (valor, presente, válido). Campo ausente ou vazio
// não é erro; apenas valores não numéricos invalidam o registro.
func parseFloatField(record domain.RawRecord, field string) (float64, bool, bool) {
	raw, exists := record[field]
	if !exists || raw == "" {
		return 0, false, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, false
	}

	return value, true, true
}

// parseIntField aceita também representações fracionárias inteiras ("2.0")
func parseIntField(record domain.RawRecord, field string) (int, bool, bool) {
	raw, exists := record[field]
	if !exists || raw == "" {
		return 0, false, true
	}

	if value, err := strconv.Atoi(raw); err == nil {
		return value, true, true
	}

	asFloat, err := strconv.ParseFloat(raw, 64)
	if err != nil || asFloat != float64(int(asFloat)) {
		return 0, true, false
	}

	return int(asFloat), true, true
}
