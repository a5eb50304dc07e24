package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/types"
)

const patternsKey = "content:patterns"

type PatternStore interface {
	Load(ctx context.Context) ([]types.PatternRecord, error)
	Save(ctx context.Context, records []types.PatternRecord) error
}

type RedisPatternStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisPatternStore(client redis.UniversalClient, prefix string) *RedisPatternStore {
	key := patternsKey
	if prefix != "" {
		key = prefix + ":" + patternsKey
	}
	return &RedisPatternStore{client: client, key: key}
}

// Load returns nil without error when nothing has been saved yet.
func (s *RedisPatternStore) Load(ctx context.Context) ([]types.PatternRecord, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load patterns: %w", err)
	}
	var records []types.PatternRecord
	if err := jsoncompat.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode patterns: %w", err)
	}
	return records, nil
}

func (s *RedisPatternStore) Save(ctx context.Context, records []types.PatternRecord) error {
	data, err := jsoncompat.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save patterns: %w", err)
	}
	return nil
}
