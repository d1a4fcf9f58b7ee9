package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshot history in a Redis list, newest first.
// Retention is enforced with LTRIM after every push.
type RedisStore struct {
	client    *redis.Client
	key       string
	retention int
}

// NewRedisStore creates a Redis-backed snapshot store. A retention of
// zero or less falls back to DefaultRetention.
func NewRedisStore(client *redis.Client, key string, retention int) *RedisStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if key == "" {
		key = "heatmap:snapshots"
	}
	return &RedisStore{client: client, key: key, retention: retention}
}

// List returns stored snapshots, most recent first.
func (s *RedisStore) List(ctx context.Context) ([]Snapshot, error) {
	values, err := s.client.LRange(ctx, s.key, 0, int64(s.retention-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(values))
	for _, v := range values {
		var snap Snapshot
		if err := json.Unmarshal([]byte(v), &snap); err != nil {
			// Skip records written by an incompatible version.
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Save pushes a snapshot and trims history to the retention cap.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, s.key, data)
	pipe.LTrim(ctx, s.key, 0, int64(s.retention-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// DeleteAll drops the whole history.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}
