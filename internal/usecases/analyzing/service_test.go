package analyzing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storelens/sales-analytics-api/infrastructure/cache"
	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/storelens/sales-analytics-api/internal/config"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/internal/usecases/aggregating"
	"github.com/storelens/sales-analytics-api/internal/usecases/caching"
	"github.com/storelens/sales-analytics-api/internal/usecases/validating"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			AnalysisTTL:  time.Hour,
			IngestionTTL: 24 * time.Hour,
		},
	}
}

func newTestService(t *testing.T) (Analyzer, *mocks.MockSaleRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockSaleRepository(ctrl)

	service := NewService(
		testConfig(),
		validating.NewService(),
		aggregating.NewService(mockRepo),
		caching.NewService(cache.NewMemoryStore()),
		mockRepo,
	)

	return service, mockRepo
}

func TestService_IngestSales(t *testing.T) {
	ctx := context.Background()

	t.Run("Lote válido é gravado no ledger após validação completa", func(t *testing.T) {
		service, mockRepo := newTestService(t)

		mockRepo.EXPECT().
			BulkInsert(gomock.Any(), gomock.Len(2)).
			Return(int64(2), nil)

		result, err := service.IngestSales(ctx, "batch-1", []domain.RawRecord{
			{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10", "quantity": "2"},
			{"invoice_id": "INV002", "date": "2023-01-02", "unit_price": "20", "quantity": "3"},
			{"invoice_id": "INV001", "date": "2023-01-01", "unit_price": "10", "quantity": "2"},
		})

		assert.NoError(t, err)
		assert.Equal(t, "batch-1", result.BatchID)
		assert.Equal(t, 3, result.Received)
		assert.Equal(t, 2, result.Inserted)
		assert.Equal(t, 1, result.DuplicateCount)
		assert.Len(t, result.Rejected, 1)
	})

	t.Run("Reenvio do mesmo lote dentro do TTL não reprocessa", func(t *testing.T) {
		service, mockRepo := newTestService(t)

		batch := []domain.RawRecord{
			{"invoice_id": "INV001", "date": "2023-01-01", "total": "10"},
		}

		mockRepo.EXPECT().
			BulkInsert(gomock.Any(), gomock.Any()).
			Return(int64(1), nil).
			Times(1)

		first, err := service.IngestSales(ctx, "batch-2", batch)
		assert.NoError(t, err)

		second, err := service.IngestSales(ctx, "batch-2", batch)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Identificador de lote é gerado quando ausente", func(t *testing.T) {
		service, mockRepo := newTestService(t)

		mockRepo.EXPECT().
			BulkInsert(gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		result, err := service.IngestSales(ctx, "", []domain.RawRecord{
			{"invoice_id": "INV001", "date": "2023-01-01", "total": "10"},
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, result.BatchID)
	})

	t.Run("Erro de esquema aborta antes de qualquer gravação", func(t *testing.T) {
		service, _ := newTestService(t)

		result, err := service.IngestSales(ctx, "batch-3", []domain.RawRecord{
			{"foo": "bar"},
		})

		assert.Nil(t, result)
		var schemaErr *validating.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("Falha do ledger é propagada sem cache", func(t *testing.T) {
		service, mockRepo := newTestService(t)

		ledgerErr := &repository.LedgerError{Op: "bulk_insert", Err: errors.New("conexão recusada")}

		// Duas tentativas: a falha não pode ficar cacheada
		mockRepo.EXPECT().
			BulkInsert(gomock.Any(), gomock.Any()).
			Return(int64(0), ledgerErr).
			Times(2)

		batch := []domain.RawRecord{
			{"invoice_id": "INV001", "date": "2023-01-01", "total": "10"},
		}

		_, err := service.IngestSales(ctx, "batch-4", batch)
		var asLedger *repository.LedgerError
		assert.ErrorAs(t, err, &asLedger)

		_, err = service.IngestSales(ctx, "batch-4", batch)
		assert.ErrorAs(t, err, &asLedger)
	})
}

func TestService_TimeSeries_Caching(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := newTestService(t)

	// O ledger é consultado apenas uma vez; a segunda chamada vem do cache
	mockRepo.EXPECT().
		GetByDateRange(nil, nil).
		Return([]*domain.Sale{
			{InvoiceID: "INV001", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Total: 20, Quantity: 2, UnitPrice: 10},
			{InvoiceID: "INV002", Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Total: 60, Quantity: 3, UnitPrice: 20},
		}, nil).
		Times(1)

	first, err := service.TimeSeries(ctx, nil, domain.IntervalDay)
	assert.NoError(t, err)
	assert.Len(t, first.Data, 2)
	assert.Equal(t, 80.0, first.Summary.TotalSales)

	second, err := service.TimeSeries(ctx, nil, domain.IntervalDay)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Analyses_DistinctSignatures(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := newTestService(t)

	sales := []*domain.Sale{
		{InvoiceID: "INV001", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Total: 20, Quantity: 2, UnitPrice: 10, ProductLine: "Food", CustomerType: "Member"},
	}

	// Cada tipo de análise tem assinatura própria: quatro consultas ao ledger
	mockRepo.EXPECT().GetByDateRange(nil, nil).Return(sales, nil).Times(4)

	_, err := service.TimeSeries(ctx, nil, domain.IntervalDay)
	assert.NoError(t, err)

	products, err := service.ProductAnalysis(ctx, nil)
	assert.NoError(t, err)
	assert.Len(t, products.Products, 1)

	customers, err := service.CustomerAnalysis(ctx, nil)
	assert.NoError(t, err)
	assert.Len(t, customers.Customers, 1)

	overview, err := service.SalesOverview(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, overview.Overall.TotalSales)
}

func TestService_TimeSeries_InvalidRange(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	start := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	result, err := service.TimeSeries(ctx, &domain.AnalysisFilters{
		StartDate: &start,
		EndDate:   &end,
	}, domain.IntervalDay)

	assert.Nil(t, result)
	var aggErr *aggregating.AggregationError
	assert.ErrorAs(t, err, &aggErr)
}
