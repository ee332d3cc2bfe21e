package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"tsimport/timesheet"
)

type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	Collection string
}

// RedisStore keeps each entry as a JSON string plus a per-user weekly index
// set, written together in one MULTI/EXEC.
type RedisStore struct {
	client     *redis.Client
	collection string
}

func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	collection := collectionOrDefault(opts.Collection)
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, collection: collection}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) WriteEntries(ctx context.Context, entries []timesheet.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if err := timesheet.ValidateAll(entries); err != nil {
		return 0, fmt.Errorf("validate entries: %w", err)
	}

	documents := make([][]byte, len(entries))
	for i, entry := range entries {
		document, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("encode entry %s: %w", entry.ID, err)
		}
		documents[i] = document
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, entry := range entries {
			pipe.Set(ctx, entryKey(s.collection, entry.ID), documents[i], 0)
			pipe.SAdd(ctx, weekIndexKey(s.collection, entry.WeekKey, entry.UserID), entry.ID)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("write entries to redis: %w", err)
	}

	return len(entries), nil
}

func entryKey(collection, id string) string {
	return fmt.Sprintf("%s:%s", collection, id)
}

func weekIndexKey(collection, weekKey, userID string) string {
	return fmt.Sprintf("%s:week:%s:%s", collection, weekKey, userID)
}
