package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/himand/newsgenius/session"
)

// Store keeps sessions in Redis so logins survive process restarts.
type Store struct {
	client *redis.Client
}

func NewStore(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: rdb}
}

// Ping verifies the connection at startup.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func key(id string) string { return fmt.Sprintf("session:%s", id) }

func (s *Store) Create(ctx context.Context, state session.State, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, key(id), data, ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (session.State, error) {
	val, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return session.State{}, session.ErrNotFound
	}
	if err != nil {
		return session.State{}, err
	}
	var state session.State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return session.State{}, err
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, id string, state session.State) error {
	exists, err := s.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return session.ErrNotFound
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	// keep the TTL set at login
	return s.client.Set(ctx, key(id), data, redis.KeepTTL).Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}
