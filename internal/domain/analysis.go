package domain

import "time"

// Interval define a granularidade de reamostragem da série temporal
type Interval string

const (
	IntervalDay     Interval = "day"
	IntervalWeek    Interval = "week"
	IntervalMonth   Interval = "month"
	IntervalQuarter Interval = "quarter"
	IntervalYear    Interval = "year"
)

// IsValid verifica se o intervalo é um dos valores suportados
func (i Interval) IsValid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalQuarter, IntervalYear:
		return true
	}
	return false
}

// AnalysisFilters define o escopo de datas de uma análise.
// Datas nulas significam escopo aberto naquela extremidade.
type AnalysisFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// TimeSeriesPoint representa um bucket da série temporal de vendas.
// GrowthRate é nulo quando o bucket anterior tem valor zero.
type TimeSeriesPoint struct {
	Date              time.Time `json:"date"`
	TotalSales        float64   `json:"total_sales"`
	TransactionCount  int       `json:"transaction_count"`
	AverageOrderValue float64   `json:"average_order_value"`
	TotalQuantity     int       `json:"total_quantity"`
	GrowthRate        *float64  `json:"growth_rate"`
	RollingAvg        float64   `json:"rolling_avg"`
}

// TimeSeriesSummary contém os totais escalares da série temporal
type TimeSeriesSummary struct {
	TotalSales            float64 `json:"total_sales"`
	AvgSalesPerBucket     float64 `json:"avg_sales_per_bucket"`
	MaxSalesPerBucket     float64 `json:"max_sales_per_bucket"`
	MinSalesPerBucket     float64 `json:"min_sales_per_bucket"`
	TotalTransactions     int     `json:"total_transactions"`
	AvgTransactionsBucket float64 `json:"avg_transactions_per_bucket"`
	AvgOrderValue         float64 `json:"avg_order_value"`
	TotalQuantity         int     `json:"total_quantity"`
	AvgGrowthRate         float64 `json:"avg_growth_rate"`
}

// TimeSeriesResult é o resultado completo de uma análise de série temporal
type TimeSeriesResult struct {
	Filters  *AnalysisFilters  `json:"filters,omitempty"`
	Interval Interval          `json:"interval"`
	Summary  TimeSeriesSummary `json:"summary"`
	Data     []TimeSeriesPoint `json:"data"`
}

// ProductSummary contém as métricas agregadas de uma linha de produto.
// AvgRating é nulo quando nenhuma venda do grupo tem avaliação.
type ProductSummary struct {
	ProductLine         string   `json:"product_line"`
	TotalSales          float64  `json:"total_sales"`
	TotalQuantity       int      `json:"total_quantity"`
	AvgPrice            float64  `json:"avg_price"`
	TransactionCount    int      `json:"transaction_count"`
	AvgRating           *float64 `json:"avg_rating"`
	SalesPerTransaction float64  `json:"sales_per_transaction"`
}

// ProductAnalysisSummary contém os totais escalares da análise de produtos
type ProductAnalysisSummary struct {
	TotalProducts     int     `json:"total_products"`
	TotalSales        float64 `json:"total_sales"`
	TotalQuantity     int     `json:"total_quantity"`
	AvgPrice          float64 `json:"avg_price"`
	TotalTransactions int     `json:"total_transactions"`
}

// ProductResult é o resultado completo de uma análise de produtos
type ProductResult struct {
	Filters  *AnalysisFilters       `json:"filters,omitempty"`
	Summary  ProductAnalysisSummary `json:"summary"`
	Products []ProductSummary       `json:"products"`
}

// CustomerSummary contém as métricas agregadas de um segmento de clientes,
// agrupado por tipo de cliente e gênero
type CustomerSummary struct {
	CustomerType     string   `json:"customer_type"`
	Gender           string   `json:"gender"`
	TransactionCount int      `json:"transaction_count"`
	TotalSpent       float64  `json:"total_spent"`
	AvgOrderValue    float64  `json:"avg_order_value"`
	UniqueVisits     int      `json:"unique_visits"`
	AvgRating        *float64 `json:"avg_rating"`
	VisitFrequency   float64  `json:"visit_frequency"`
}

// CustomerAnalysisSummary contém os totais escalares da análise de clientes
type CustomerAnalysisSummary struct {
	TotalSegments     int     `json:"total_segments"`
	TotalTransactions int     `json:"total_transactions"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	AvgRating         float64 `json:"avg_rating"`
}

// CustomerResult é o resultado completo de uma análise de clientes
type CustomerResult struct {
	Filters   *AnalysisFilters        `json:"filters,omitempty"`
	Summary   CustomerAnalysisSummary `json:"summary"`
	Customers []CustomerSummary       `json:"customers"`
}

// OverviewMetrics contém o resumo geral das vendas em um período
type OverviewMetrics struct {
	TotalSales        float64 `json:"total_sales"`
	TotalTransactions int     `json:"total_transactions"`
	AverageOrderValue float64 `json:"average_order_value"`
	TotalQuantity     int     `json:"total_quantity"`
}

// ProductOverview contém o resumo compacto de vendas por linha de produto
type ProductOverview struct {
	ProductLine   string  `json:"product_line"`
	TotalSales    float64 `json:"total_sales"`
	TotalQuantity int     `json:"total_quantity"`
	AvgPrice      float64 `json:"avg_price"`
}

// CustomerOverview contém o resumo compacto de vendas por tipo de cliente
type CustomerOverview struct {
	CustomerType     string  `json:"customer_type"`
	TransactionCount int     `json:"transaction_count"`
	TotalSales       float64 `json:"total_sales"`
	AvgOrderValue    float64 `json:"avg_order_value"`
}

// OverviewResult é o resultado da visão geral de vendas
type OverviewResult struct {
	Filters   *AnalysisFilters   `json:"filters,omitempty"`
	Overall   OverviewMetrics    `json:"overall"`
	Products  []ProductOverview  `json:"products"`
	Customers []CustomerOverview `json:"customers"`
}
