package aggregating

// AggregationError indica parâmetros de análise malformados, como data
// final anterior à inicial ou intervalo de reamostragem desconhecido.
// Um escopo válido sem vendas nunca gera este erro.
type AggregationError struct {
	Message string
}

func (e *AggregationError) Error() string {
	return "agregação: " + e.Message
}
