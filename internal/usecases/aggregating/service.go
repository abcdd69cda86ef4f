package aggregating

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/pkg/utils"
)

// Janela da média móvel da série temporal, em buckets
const rollingWindow = 7

// AggregationEngine executa as análises agrupadas sobre o ledger de vendas
type AggregationEngine interface {
	// TimeSeries agrupa as vendas por data e reamostra no intervalo pedido
	TimeSeries(filters *domain.AnalysisFilters, interval domain.Interval) (*domain.TimeSeriesResult, error)

	// ProductAnalysis agrupa as vendas por linha de produto
	ProductAnalysis(filters *domain.AnalysisFilters) (*domain.ProductResult, error)

	// CustomerAnalysis agrupa as vendas por tipo de cliente e gênero
	CustomerAnalysis(filters *domain.AnalysisFilters) (*domain.CustomerResult, error)

	// SalesOverview calcula o resumo geral de vendas do período
	SalesOverview(filters *domain.AnalysisFilters) (*domain.OverviewResult, error)
}

type service struct {
	salesRepo repository.SaleRepository
}

// NewService cria uma nova instância do motor de agregação
func NewService(salesRepo repository.SaleRepository) AggregationEngine {
	return &service{
		salesRepo: salesRepo,
	}
}

// validateFilters garante que o escopo de datas é bem formado
func validateFilters(filters *domain.AnalysisFilters) error {
	if filters == nil {
		return nil
	}

	if filters.StartDate != nil && filters.EndDate != nil &&
		filters.EndDate.Before(*filters.StartDate) {
		return &AggregationError{Message: "a data final não pode ser anterior à data inicial"}
	}

	return nil
}

func (s *service) fetchScope(filters *domain.AnalysisFilters) ([]*domain.Sale, error) {
	var start, end *time.Time
	if filters != nil {
		start = filters.StartDate
		end = filters.EndDate
	}

	return s.salesRepo.GetByDateRange(start, end)
}

// dailyAggregate acumula as métricas de um dia-calendário
type dailyAggregate struct {
	totalSales    float64
	totalQuantity int
	count         int
}

func (d dailyAggregate) averageOrderValue() float64 {
	if d.count == 0 {
		return 0
	}
	return d.totalSales / float64(d.count)
}

func (s *service) TimeSeries(filters *domain.AnalysisFilters, interval domain.Interval) (*domain.TimeSeriesResult, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	if !interval.IsValid() {
		return nil, &AggregationError{Message: "intervalo de reamostragem inválido: " + string(interval)}
	}

	sales, err := s.fetchScope(filters)
	if err != nil {
		return nil, err
	}

	result := &domain.TimeSeriesResult{
		Filters:  filters,
		Interval: interval,
		Data:     make([]domain.TimeSeriesPoint, 0),
	}

	// Escopo válido sem vendas produz um resultado zerado, nunca um erro
	if len(sales) == 0 {
		logrus.WithField("interval", interval).Info("Série temporal sem vendas no escopo")
		return result, nil
	}

	// 1. Agrupamento por dia-calendário
	daily := make(map[time.Time]*dailyAggregate)
	minDay := truncateToDay(sales[0].Date)
	maxDay := minDay

	for _, sale := range sales {
		day := truncateToDay(sale.Date)
		if day.Before(minDay) {
			minDay = day
		}
		if day.After(maxDay) {
			maxDay = day
		}

		agg, ok := daily[day]
		if !ok {
			agg = &dailyAggregate{}
			daily[day] = agg
		}

		agg.totalSales += sale.Total
		agg.totalQuantity += sale.Quantity
		agg.count++
	}

	// 2. Limites da série: escopo pedido quando informado, senão os dados
	seriesStart := minDay
	seriesEnd := maxDay
	if filters != nil && filters.StartDate != nil {
		seriesStart = truncateToDay(*filters.StartDate)
	}
	if filters != nil && filters.EndDate != nil {
		seriesEnd = truncateToDay(*filters.EndDate)
	}

	// 3. Reamostragem: métricas de volume são somadas, o ticket médio é a
	// média dos valores diários, e buckets vazios entram zerados
	firstBucket := bucketStart(seriesStart, interval)
	lastBucket := bucketStart(seriesEnd, interval)

	for bucket := firstBucket; !bucket.After(lastBucket); bucket = nextBucket(bucket, interval) {
		point := domain.TimeSeriesPoint{Date: bucket}

		next := nextBucket(bucket, interval)
		daysWithData := 0
		orderValueSum := 0.0

		for day, agg := range daily {
			if day.Before(bucket) || !day.Before(next) {
				continue
			}

			point.TotalSales += agg.totalSales
			point.TransactionCount += agg.count
			point.TotalQuantity += agg.totalQuantity
			orderValueSum += agg.averageOrderValue()
			daysWithData++
		}

		if daysWithData > 0 {
			point.AverageOrderValue = orderValueSum / float64(daysWithData)
		}

		result.Data = append(result.Data, point)
	}

	// 4. Métricas derivadas: growth rate e média móvel
	applyDerivedMetrics(result.Data)

	result.Summary = summarizeTimeSeries(result.Data)

	logrus.WithFields(logrus.Fields{
		"interval": interval,
		"buckets":  len(result.Data),
		"sales":    len(sales),
	}).Info("Série temporal gerada com sucesso")

	return result, nil
}

// applyDerivedMetrics calcula o growth rate e a média móvel sobre a série.
// O growth rate é nulo no primeiro bucket e sempre que o bucket anterior
// tem valor zero; a média móvel usa a janela retroativa de até sete
// buckets, incluindo o atual, sem olhar para frente.
func applyDerivedMetrics(points []domain.TimeSeriesPoint) {
	for i := range points {
		if i > 0 && points[i-1].TotalSales != 0 {
			prev := points[i-1].TotalSales
			rate := (points[i].TotalSales - prev) / prev * 100
			points[i].GrowthRate = &rate
		}

		windowStart := i - rollingWindow + 1
		if windowStart < 0 {
			windowStart = 0
		}

		sum := 0.0
		for j := windowStart; j <= i; j++ {
			sum += points[j].TotalSales
		}
		points[i].RollingAvg = sum / float64(i-windowStart+1)
	}
}

func summarizeTimeSeries(points []domain.TimeSeriesPoint) domain.TimeSeriesSummary {
	summary := domain.TimeSeriesSummary{}
	if len(points) == 0 {
		return summary
	}

	summary.MinSalesPerBucket = points[0].TotalSales
	summary.MaxSalesPerBucket = points[0].TotalSales

	orderValueSum := 0.0
	growthSum := 0.0
	growthCount := 0

	for _, p := range points {
		summary.TotalSales += p.TotalSales
		summary.TotalTransactions += p.TransactionCount
		summary.TotalQuantity += p.TotalQuantity
		orderValueSum += p.AverageOrderValue

		if p.TotalSales > summary.MaxSalesPerBucket {
			summary.MaxSalesPerBucket = p.TotalSales
		}
		if p.TotalSales < summary.MinSalesPerBucket {
			summary.MinSalesPerBucket = p.TotalSales
		}

		if p.GrowthRate != nil {
			growthSum += *p.GrowthRate
			growthCount++
		}
	}

	buckets := float64(len(points))
	summary.AvgSalesPerBucket = summary.TotalSales / buckets
	summary.AvgTransactionsBucket = float64(summary.TotalTransactions) / buckets
	summary.AvgOrderValue = orderValueSum / buckets

	if growthCount > 0 {
		summary.AvgGrowthRate = growthSum / float64(growthCount)
	}

	return summary
}

// productAggregate acumula as métricas de uma linha de produto
type productAggregate struct {
	totalSales    float64
	totalQuantity int
	priceSum      float64
	count         int
	ratingSum     float64
	ratingCount   int
}

func (s *service) ProductAnalysis(filters *domain.AnalysisFilters) (*domain.ProductResult, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	sales, err := s.fetchScope(filters)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*productAggregate)
	for _, sale := range sales {
		agg, ok := groups[sale.ProductLine]
		if !ok {
			agg = &productAggregate{}
			groups[sale.ProductLine] = agg
		}

		agg.totalSales += sale.Total
		agg.totalQuantity += sale.Quantity
		agg.priceSum += sale.UnitPrice
		agg.count++

		// Avaliações ausentes são ignoradas na média
		if sale.Rating != nil {
			agg.ratingSum += *sale.Rating
			agg.ratingCount++
		}
	}

	result := &domain.ProductResult{
		Filters:  filters,
		Products: make([]domain.ProductSummary, 0, len(groups)),
	}

	priceAvgSum := 0.0

	for _, line := range sortedKeys(groups) {
		agg := groups[line]

		product := domain.ProductSummary{
			ProductLine:      line,
			TotalSales:       agg.totalSales,
			TotalQuantity:    agg.totalQuantity,
			AvgPrice:         agg.priceSum / float64(agg.count),
			TransactionCount: agg.count,
		}

		if agg.ratingCount > 0 {
			avgRating := agg.ratingSum / float64(agg.ratingCount)
			product.AvgRating = &avgRating
		}

		if agg.count > 0 {
			product.SalesPerTransaction = utils.RoundWithTwoDecimalPlace(agg.totalSales / float64(agg.count))
		}

		priceAvgSum += product.AvgPrice

		result.Summary.TotalSales += product.TotalSales
		result.Summary.TotalQuantity += product.TotalQuantity
		result.Summary.TotalTransactions += product.TransactionCount
		result.Products = append(result.Products, product)
	}

	result.Summary.TotalProducts = len(result.Products)
	if len(result.Products) > 0 {
		result.Summary.AvgPrice = priceAvgSum / float64(len(result.Products))
	}

	logrus.WithFields(logrus.Fields{
		"products": result.Summary.TotalProducts,
		"sales":    len(sales),
	}).Info("Análise de produtos gerada com sucesso")

	return result, nil
}

// customerAggregate acumula as métricas de um segmento de clientes
type customerAggregate struct {
	customerType string
	gender       string
	totalSpent   float64
	count        int
	invoices     map[string]bool
	ratingSum    float64
	ratingCount  int
}

func (s *service) CustomerAnalysis(filters *domain.AnalysisFilters) (*domain.CustomerResult, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	sales, err := s.fetchScope(filters)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*customerAggregate)
	for _, sale := range sales {
		key := sale.CustomerType + "\x00" + sale.Gender

		agg, ok := groups[key]
		if !ok {
			agg = &customerAggregate{
				customerType: sale.CustomerType,
				gender:       sale.Gender,
				invoices:     make(map[string]bool),
			}
			groups[key] = agg
		}

		agg.totalSpent += sale.Total
		agg.count++
		agg.invoices[sale.InvoiceID] = true

		if sale.Rating != nil {
			agg.ratingSum += *sale.Rating
			agg.ratingCount++
		}
	}

	result := &domain.CustomerResult{
		Filters:   filters,
		Customers: make([]domain.CustomerSummary, 0, len(groups)),
	}

	orderValueSum := 0.0
	ratingAvgSum := 0.0

	for _, key := range sortedKeys(groups) {
		agg := groups[key]

		customer := domain.CustomerSummary{
			CustomerType:     agg.customerType,
			Gender:           agg.gender,
			TransactionCount: agg.count,
			TotalSpent:       agg.totalSpent,
			UniqueVisits:     len(agg.invoices),
		}

		if agg.count > 0 {
			customer.AvgOrderValue = agg.totalSpent / float64(agg.count)
		}

		if agg.ratingCount > 0 {
			avgRating := agg.ratingSum / float64(agg.ratingCount)
			customer.AvgRating = &avgRating
			ratingAvgSum += avgRating
		}

		if customer.UniqueVisits > 0 {
			customer.VisitFrequency = utils.RoundWithTwoDecimalPlace(
				float64(agg.count) / float64(customer.UniqueVisits),
			)
		}

		orderValueSum += customer.AvgOrderValue

		result.Summary.TotalTransactions += customer.TransactionCount
		result.Summary.TotalRevenue += customer.TotalSpent
		result.Customers = append(result.Customers, customer)
	}

	result.Summary.TotalSegments = len(result.Customers)
	if len(result.Customers) > 0 {
		segments := float64(len(result.Customers))
		result.Summary.AvgOrderValue = orderValueSum / segments
		result.Summary.AvgRating = ratingAvgSum / segments
	}

	logrus.WithFields(logrus.Fields{
		"segments": result.Summary.TotalSegments,
		"sales":    len(sales),
	}).Info("Análise de clientes gerada com sucesso")

	return result, nil
}

func (s *service) SalesOverview(filters *domain.AnalysisFilters) (*domain.OverviewResult, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	sales, err := s.fetchScope(filters)
	if err != nil {
		return nil, err
	}

	result := &domain.OverviewResult{
		Filters:   filters,
		Products:  make([]domain.ProductOverview, 0),
		Customers: make([]domain.CustomerOverview, 0),
	}

	products := make(map[string]*productAggregate)
	customers := make(map[string]*customerAggregate)

	for _, sale := range sales {
		result.Overall.TotalSales += sale.Total
		result.Overall.TotalTransactions++
		result.Overall.TotalQuantity += sale.Quantity

		p, ok := products[sale.ProductLine]
		if !ok {
			p = &productAggregate{}
			products[sale.ProductLine] = p
		}
		p.totalSales += sale.Total
		p.totalQuantity += sale.Quantity
		p.priceSum += sale.UnitPrice
		p.count++

		c, ok := customers[sale.CustomerType]
		if !ok {
			c = &customerAggregate{customerType: sale.CustomerType}
			customers[sale.CustomerType] = c
		}
		c.totalSpent += sale.Total
		c.count++
	}

	if result.Overall.TotalTransactions > 0 {
		result.Overall.AverageOrderValue = utils.RoundWithTwoDecimalPlace(
			result.Overall.TotalSales / float64(result.Overall.TotalTransactions),
		)
	}

	for _, line := range sortedKeys(products) {
		p := products[line]
		result.Products = append(result.Products, domain.ProductOverview{
			ProductLine:   line,
			TotalSales:    p.totalSales,
			TotalQuantity: p.totalQuantity,
			AvgPrice:      p.priceSum / float64(p.count),
		})
	}

	for _, customerType := range sortedKeys(customers) {
		c := customers[customerType]
		result.Customers = append(result.Customers, domain.CustomerOverview{
			CustomerType:     customerType,
			TransactionCount: c.count,
			TotalSales:       c.totalSpent,
			AvgOrderValue:    utils.RoundWithTwoDecimalPlace(c.totalSpent / float64(c.count)),
		})
	}

	return result, nil
}

// sortedKeys retorna as chaves do mapa em ordem lexicográfica para que a
// saída dos agrupamentos seja determinística
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
