package caching

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/infrastructure/cache"
	"github.com/storelens/sales-analytics-api/internal/domain"
)

// QueryCache envolve o cálculo de análises com um cache indexado pela
// assinatura da consulta. O cache é uma otimização, não um mecanismo de
// correção: qualquer falha do backend degrada para cálculo direto.
type QueryCache interface {
	// GetOrCompute devolve o payload em cache quando presente e não
	// expirado; caso contrário executa compute, grava o resultado com o
	// TTL informado e o devolve. Misses concorrentes para a mesma
	// assinatura podem calcular em duplicidade; a última gravação vence.
	GetOrCompute(
		ctx context.Context,
		sig domain.QuerySignature,
		ttl time.Duration,
		out any,
		compute func() (any, error),
	) error
}

type service struct {
	store cache.Store
}

// NewService cria um QueryCache sobre o backend informado
func NewService(store cache.Store) QueryCache {
	return &service{
		store: store,
	}
}

func (s *service) GetOrCompute(
	ctx context.Context,
	sig domain.QuerySignature,
	ttl time.Duration,
	out any,
	compute func() (any, error),
) error {
	key := sig.Key()

	payload, err := s.store.Get(ctx, key)
	if err != nil {
		// Fail-open: backend indisponível vira cache miss, nunca falha
		logrus.WithError(err).WithField("key", key).
			Warn("Cache indisponível, calculando diretamente")
		payload = nil
	}

	if payload != nil {
		if err := decodeStrict(payload, out); err == nil {
			logrus.WithField("key", key).Debug("Análise recuperada do cache")
			return nil
		}

		// Payload que não respeita o esquema esperado é descartado
		logrus.WithField("key", key).
			Warn("Payload em cache com esquema inválido, recalculando")
	}

	value, err := compute()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, encoded, ttl); err != nil {
		logrus.WithError(err).WithField("key", key).
			Warn("Falha ao gravar análise no cache")
	}

	// O mesmo caminho de decodificação do hit, garantindo que hit e miss
	// devolvem payloads idênticos byte a byte
	return decodeStrict(encoded, out)
}

// decodeStrict desserializa o payload recusando campos desconhecidos.
// Payloads nunca são avaliados como código; apenas JSON estruturado.
func decodeStrict(payload []byte, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}
