package fulfillment

import (
	"context"
	"time"

	"dining-concierge/internal/common/database"
)

const markerKeyPrefix = "fulfillment:processed:"

// ProcessedMarker records which queue messages have already been
// handled. The queue delivers at least once; a claimed marker turns a
// duplicate delivery into a no-op instead of a second email.
type ProcessedMarker interface {
	// Claim marks the message as being processed. Returns false when
	// another delivery already holds the claim.
	Claim(ctx context.Context, messageID string) (bool, error)
	// Release drops the claim so a redelivery can retry.
	Release(ctx context.Context, messageID string)
}

type RedisProcessedMarker struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisProcessedMarker(client *database.RedisClient, ttl time.Duration) *RedisProcessedMarker {
	return &RedisProcessedMarker{client: client, ttl: ttl}
}

func (m *RedisProcessedMarker) Claim(ctx context.Context, messageID string) (bool, error) {
	return m.client.SetNX(ctx, markerKeyPrefix+messageID, "1", m.ttl)
}

func (m *RedisProcessedMarker) Release(ctx context.Context, messageID string) {
	// Best effort; an orphaned marker expires with its TTL.
	_ = m.client.Del(ctx, markerKeyPrefix+messageID)
}

// NoopMarker disables duplicate protection when no marker store is
// configured. Every delivery claims successfully.
type NoopMarker struct{}

func (NoopMarker) Claim(ctx context.Context, messageID string) (bool, error) { return true, nil }
func (NoopMarker) Release(ctx context.Context, messageID string)             {}
