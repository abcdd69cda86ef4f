package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storelens/sales-analytics-api/infrastructure/cache"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

type analysisPayload struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// failingStore simula um backend de cache indisponível
type failingStore struct {
	setCalled bool
}

func (s *failingStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("backend indisponível")
}

func (s *failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend indisponível")
}

func (s *failingStore) Set(context.Context, string, []byte, time.Duration) error {
	s.setCalled = true
	return errors.New("backend indisponível")
}

func signature() domain.QuerySignature {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	return domain.QuerySignature{
		Kind:      domain.KindTimeSeries,
		StartDate: &start,
		EndDate:   &end,
		Interval:  domain.IntervalDay,
	}
}

func TestService_GetOrCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss calcula, grava e devolve o payload", func(t *testing.T) {
		queryCache := NewService(cache.NewMemoryStore())

		computeCalls := 0
		var out analysisPayload

		err := queryCache.GetOrCompute(ctx, signature(), time.Hour, &out, func() (any, error) {
			computeCalls++
			return analysisPayload{Total: 80, Count: 2}, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, computeCalls)
		assert.Equal(t, analysisPayload{Total: 80, Count: 2}, out)
	})

	t.Run("Hit devolve o payload gravado sem recalcular", func(t *testing.T) {
		queryCache := NewService(cache.NewMemoryStore())

		computeCalls := 0
		compute := func() (any, error) {
			computeCalls++
			return analysisPayload{Total: 80, Count: 2}, nil
		}

		var first analysisPayload
		assert.NoError(t, queryCache.GetOrCompute(ctx, signature(), time.Hour, &first, compute))

		var second analysisPayload
		assert.NoError(t, queryCache.GetOrCompute(ctx, signature(), time.Hour, &second, compute))

		assert.Equal(t, 1, computeCalls)
		assert.Equal(t, first, second)
	})

	t.Run("TTL expirado recalcula", func(t *testing.T) {
		queryCache := NewService(cache.NewMemoryStore())

		computeCalls := 0
		compute := func() (any, error) {
			computeCalls++
			return analysisPayload{Total: 80, Count: 2}, nil
		}

		var out analysisPayload
		assert.NoError(t, queryCache.GetOrCompute(ctx, signature(), time.Millisecond, &out, compute))

		time.Sleep(5 * time.Millisecond)

		assert.NoError(t, queryCache.GetOrCompute(ctx, signature(), time.Millisecond, &out, compute))
		assert.Equal(t, 2, computeCalls)
	})

	t.Run("Backend indisponível degrada para cálculo direto", func(t *testing.T) {
		store := &failingStore{}
		queryCache := NewService(store)

		var out analysisPayload
		err := queryCache.GetOrCompute(ctx, signature(), time.Hour, &out, func() (any, error) {
			return analysisPayload{Total: 42, Count: 1}, nil
		})

		// A falha do cache nunca chega ao chamador
		assert.NoError(t, err)
		assert.Equal(t, analysisPayload{Total: 42, Count: 1}, out)
		assert.True(t, store.setCalled)
	})

	t.Run("Erro do cálculo é propagado sem gravar no cache", func(t *testing.T) {
		store := cache.NewMemoryStore()
		queryCache := NewService(store)

		computeErr := errors.New("ledger fora do ar")

		var out analysisPayload
		err := queryCache.GetOrCompute(ctx, signature(), time.Hour, &out, func() (any, error) {
			return nil, computeErr
		})

		assert.ErrorIs(t, err, computeErr)

		payload, getErr := store.Get(ctx, signature().Key())
		assert.NoError(t, getErr)
		assert.Nil(t, payload)
	})

	t.Run("Payload com esquema inesperado vira miss", func(t *testing.T) {
		store := cache.NewMemoryStore()
		queryCache := NewService(store)

		// Payload antigo com campo desconhecido
		assert.NoError(t, store.Set(ctx, signature().Key(),
			[]byte(`{"total": 10, "count": 1, "legacy_field": true}`), time.Hour))

		computeCalls := 0
		var out analysisPayload
		err := queryCache.GetOrCompute(ctx, signature(), time.Hour, &out, func() (any, error) {
			computeCalls++
			return analysisPayload{Total: 99, Count: 3}, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, computeCalls)
		assert.Equal(t, analysisPayload{Total: 99, Count: 3}, out)
	})
}

// Assinaturas iguais geram a mesma chave; qualquer dimensão diferente muda a chave
func TestQuerySignatureKeys(t *testing.T) {
	base := signature()

	assert.Equal(t, base.Key(), signature().Key())

	weekly := signature()
	weekly.Interval = domain.IntervalWeek
	assert.NotEqual(t, base.Key(), weekly.Key())

	products := signature()
	products.Kind = domain.KindProductAnalysis
	assert.NotEqual(t, base.Key(), products.Key())

	open := domain.QuerySignature{Kind: domain.KindTimeSeries, Interval: domain.IntervalDay}
	assert.NotEqual(t, base.Key(), open.Key())

	ingestion := domain.QuerySignature{Kind: domain.KindIngestion, BatchID: "abc123"}
	assert.Equal(t, "ingestion:abc123", ingestion.Key())
}
