package analyzing

import (
	"context"

	"github.com/storelens/sales-analytics-api/internal/domain"
)

// Analyzer é a fachada de análises de vendas: orquestra o validador, o
// motor de agregação e o cache de consultas
type Analyzer interface {
	// IngestSales valida um lote bruto e grava os registros canônicos no
	// ledger em uma única transação. O resultado fica em cache por 24h
	// sob o identificador do lote.
	IngestSales(ctx context.Context, batchID string, batch []domain.RawRecord) (*domain.IngestionResult, error)

	// TimeSeries retorna a série temporal de vendas no intervalo pedido
	TimeSeries(ctx context.Context, filters *domain.AnalysisFilters, interval domain.Interval) (*domain.TimeSeriesResult, error)

	// ProductAnalysis retorna as métricas agrupadas por linha de produto
	ProductAnalysis(ctx context.Context, filters *domain.AnalysisFilters) (*domain.ProductResult, error)

	// CustomerAnalysis retorna as métricas agrupadas por segmento de cliente
	CustomerAnalysis(ctx context.Context, filters *domain.AnalysisFilters) (*domain.CustomerResult, error)

	// SalesOverview retorna o resumo geral de vendas do período
	SalesOverview(ctx context.Context, filters *domain.AnalysisFilters) (*domain.OverviewResult, error)
}
