package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/petd/internal/model"
)

const DefaultRedisPrefix = "petd:state:"

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("storage: nil redis client")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStore(client, prefix)
}

func (s *RedisStore) Load(ctx context.Context, key string) (model.AppState, error) {
	if err := validateKey(key); err != nil {
		return model.AppState{}, err
	}
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.AppState{}, ErrNotFound
		}
		return model.AppState{}, err
	}
	return decodeState(raw)
}

func (s *RedisStore) Save(ctx context.Context, key string, state model.AppState) error {
	if err := validateKey(key); err != nil {
		return err
	}
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, payload, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
