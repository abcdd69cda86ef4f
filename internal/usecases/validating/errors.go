package validating

import (
	"fmt"
	"strings"
)

// SchemaError indica que o lote não possui nenhuma das colunas obrigatórias
// reconhecíveis (invoice_id, date e total ou unit_price+quantity).
// É o único erro fatal da validação: todo o lote é abortado.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"lote sem colunas obrigatórias reconhecíveis: %s",
		strings.Join(e.MissingColumns, ", "),
	)
}
