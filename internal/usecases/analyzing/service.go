package analyzing

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/internal/config"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/internal/usecases/aggregating"
	"github.com/storelens/sales-analytics-api/internal/usecases/caching"
	"github.com/storelens/sales-analytics-api/internal/usecases/validating"
	"github.com/storelens/sales-analytics-api/pkg/utils"
)

// Service implementa a fachada Analyzer
type Service struct {
	cfg        *config.Config
	validator  validating.RecordValidator
	engine     aggregating.AggregationEngine
	queryCache caching.QueryCache
	salesRepo  repository.SaleRepository
}

// NewService cria uma nova instância da fachada de análises
func NewService(
	cfg *config.Config,
	validator validating.RecordValidator,
	engine aggregating.AggregationEngine,
	queryCache caching.QueryCache,
	salesRepo repository.SaleRepository,
) Analyzer {
	return &Service{
		cfg:        cfg,
		validator:  validator,
		engine:     engine,
		queryCache: queryCache,
		salesRepo:  salesRepo,
	}
}

func (s *Service) IngestSales(ctx context.Context, batchID string, batch []domain.RawRecord) (*domain.IngestionResult, error) {
	if batchID == "" {
		generated, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}
		batchID = generated
	}

	sig := domain.QuerySignature{
		Kind:    domain.KindIngestion,
		BatchID: batchID,
	}

	result := &domain.IngestionResult{}

	// Reenvios do mesmo lote dentro do TTL devolvem o resultado em cache
	// sem reprocessar; a ingestão é idempotente no ledger de todo modo
	err := s.queryCache.GetOrCompute(ctx, sig, s.cfg.Cache.IngestionTTL, result, func() (any, error) {
		return s.processBatch(ctx, batchID, batch)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// processBatch executa a ingestão propriamente dita: a validação termina
// por completo antes de qualquer gravação no ledger
func (s *Service) processBatch(ctx context.Context, batchID string, batch []domain.RawRecord) (*domain.IngestionResult, error) {
	validation, err := s.validator.Validate(batch)
	if err != nil {
		logrus.WithError(err).WithField("batch_id", batchID).
			Error("Lote de ingestão recusado pela validação de esquema")
		return nil, err
	}

	inserted, err := s.salesRepo.BulkInsert(ctx, validation.Sales)
	if err != nil {
		logrus.WithError(err).WithField("batch_id", batchID).
			Error("Erro ao gravar lote validado no ledger")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id":   batchID,
		"received":   len(batch),
		"inserted":   inserted,
		"rejected":   len(validation.Rejected),
		"duplicates": validation.DuplicateCount,
	}).Info("Lote de vendas ingerido com sucesso")

	return &domain.IngestionResult{
		BatchID:        batchID,
		Received:       len(batch),
		Inserted:       int(inserted),
		Rejected:       validation.Rejected,
		DuplicateCount: validation.DuplicateCount,
	}, nil
}

func (s *Service) TimeSeries(ctx context.Context, filters *domain.AnalysisFilters, interval domain.Interval) (*domain.TimeSeriesResult, error) {
	if interval == "" {
		interval = domain.IntervalDay
	}

	filters = normalizeFilters(filters)

	sig := domain.QuerySignature{
		Kind:      domain.KindTimeSeries,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
		Interval:  interval,
	}

	result := &domain.TimeSeriesResult{}
	err := s.queryCache.GetOrCompute(ctx, sig, s.cfg.Cache.AnalysisTTL, result, func() (any, error) {
		return s.engine.TimeSeries(filters, interval)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) ProductAnalysis(ctx context.Context, filters *domain.AnalysisFilters) (*domain.ProductResult, error) {
	filters = normalizeFilters(filters)

	sig := domain.QuerySignature{
		Kind:      domain.KindProductAnalysis,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	}

	result := &domain.ProductResult{}
	err := s.queryCache.GetOrCompute(ctx, sig, s.cfg.Cache.AnalysisTTL, result, func() (any, error) {
		return s.engine.ProductAnalysis(filters)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) CustomerAnalysis(ctx context.Context, filters *domain.AnalysisFilters) (*domain.CustomerResult, error) {
	filters = normalizeFilters(filters)

	sig := domain.QuerySignature{
		Kind:      domain.KindCustomerAnalysis,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	}

	result := &domain.CustomerResult{}
	err := s.queryCache.GetOrCompute(ctx, sig, s.cfg.Cache.AnalysisTTL, result, func() (any, error) {
		return s.engine.CustomerAnalysis(filters)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) SalesOverview(ctx context.Context, filters *domain.AnalysisFilters) (*domain.OverviewResult, error) {
	filters = normalizeFilters(filters)

	sig := domain.QuerySignature{
		Kind:      domain.KindSalesOverview,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	}

	result := &domain.OverviewResult{}
	err := s.queryCache.GetOrCompute(ctx, sig, s.cfg.Cache.AnalysisTTL, result, func() (any, error) {
		return s.engine.SalesOverview(filters)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeFilters garante filtros não nulos para compor as assinaturas
func normalizeFilters(filters *domain.AnalysisFilters) *domain.AnalysisFilters {
	if filters == nil {
		return &domain.AnalysisFilters{}
	}
	return filters
}
