package cache

import (
	"context"
	"time"
)

// Store é o backend de cache de análises: payloads opacos indexados por
// chave de assinatura. Qualquer erro retornado é tratado pelo chamador
// como cache miss (fail-open), nunca como falha da requisição.
type Store interface {
	// Exists informa se a chave está presente e não expirada
	Exists(ctx context.Context, key string) (bool, error)

	// Get retorna o payload da chave ou (nil, nil) quando ausente/expirada
	Get(ctx context.Context, key string) ([]byte, error)

	// Set grava o payload com o TTL informado. A gravação é atômica:
	// leitores nunca observam uma entrada parcial.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
