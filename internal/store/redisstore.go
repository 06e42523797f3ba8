package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

const redisStateKey = "shuttleroute:schedule_state"

// RedisStore keeps the schedule document serialized under a single
// key.
type RedisStore struct {
	client *redis.Client
	logger logger.Logger
	mu     sync.Mutex
}

func NewRedisStore(ctx context.Context, addr, password string, db int, log logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info("Redis connection established", "addr", addr)
	return &RedisStore{client: client, logger: log}, nil
}

func (s *RedisStore) Load(ctx context.Context) (*engine.ScheduleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.client.Get(ctx, redisStateKey).Bytes()
	if errors.Is(err, redis.Nil) {
		st := engine.DefaultState()
		if err := s.save(ctx, st); err != nil {
			return nil, fmt.Errorf("seeding schedule document: %w", err)
		}
		s.logger.Info("Seeded default schedule document")
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching schedule document: %w", err)
	}

	var st engine.ScheduleState
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("parsing schedule document: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, st *engine.ScheduleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, st)
}

func (s *RedisStore) save(ctx context.Context, st *engine.ScheduleState) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling schedule document: %w", err)
	}
	if err := s.client.Set(ctx, redisStateKey, doc, 0).Err(); err != nil {
		return fmt.Errorf("storing schedule document: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
