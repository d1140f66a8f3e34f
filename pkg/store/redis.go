package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
)

// Redis implements Store on a Redis server. Documents are JSON strings
// indexed by a sorted set scored by id.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL sets the expiration for stored documents.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *Redis) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *Redis) {
		s.prefix = prefix
	}
}

// NewRedis connects a store to the server at address.
func NewRedis(address, password string, db int, opts ...RedisOption) *Redis {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...RedisOption) *Redis {
	s := &Redis{
		client: client,
		prefix: "fsmcanvas:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) docKey(id int) string {
	return s.prefix + "automaton:" + strconv.Itoa(id)
}

func (s *Redis) indexKey() string      { return s.prefix + "index" }
func (s *Redis) activeKey() string     { return s.prefix + "active" }
func (s *Redis) comparisonKey() string { return s.prefix + "comparison" }

func (s *Redis) Put(ctx context.Context, id int, doc codec.Document) error {
	data, err := codec.ToJSON(doc, false)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.docKey(id), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(id), Member: strconv.Itoa(id)})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *Redis) Get(ctx context.Context, id int) (codec.Document, error) {
	val, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return codec.Document{}, ErrNotFound
		}
		return codec.Document{}, fmt.Errorf("failed to load from redis: %w", err)
	}
	doc, _, err := codec.ParseJSON(val)
	if err != nil {
		return codec.Document{}, fmt.Errorf("failed to parse stored document %d: %w", id, err)
	}
	return doc, nil
}

func (s *Redis) Delete(ctx context.Context, id int) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.docKey(id))
	pipe.ZRem(ctx, s.indexKey(), strconv.Itoa(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// IDs lists indexed ids whose document still exists. Entries whose key
// expired through the TTL are pruned from the index.
func (s *Redis) IDs(ctx context.Context) ([]int, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis index: %w", err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		n, err := s.client.Exists(ctx, s.docKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check redis key: %w", err)
		}
		if n == 0 {
			s.client.ZRem(ctx, s.indexKey(), m)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Redis) SetActive(ctx context.Context, id int) error {
	if err := s.client.Set(ctx, s.activeKey(), id, 0).Err(); err != nil {
		return fmt.Errorf("failed to save active id: %w", err)
	}
	return nil
}

func (s *Redis) Active(ctx context.Context) (int, bool, error) {
	id, err := s.client.Get(ctx, s.activeKey()).Int()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load active id: %w", err)
	}
	return id, true, nil
}

func (s *Redis) SetComparison(ctx context.Context, ids []int) error {
	if err := checkComparison(ids); err != nil {
		return err
	}
	data, err := json.Marshal(append([]int{}, ids...))
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	if err := s.client.Set(ctx, s.comparisonKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save comparison: %w", err)
	}
	return nil
}

func (s *Redis) Comparison(ctx context.Context) ([]int, error) {
	val, err := s.client.Get(ctx, s.comparisonKey()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to load comparison: %w", err)
	}
	var ids []int
	if err := json.Unmarshal(val, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comparison: %w", err)
	}
	return ids, nil
}
