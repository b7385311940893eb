package kv

import (
	"context"
	"crypto/tls"
	"log/slog"

	"rewards/internal/errors"

	"github.com/redis/go-redis/v9"
)

const redisScanCount = 100

// RedisConfig defines connection parameters for Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

type redisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (Store, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "redis ping %s", cfg.Addr)
	}

	return NewRedisStore(client, logger), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, logger *slog.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.With("component", "kv.redis"),
	}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "redis get %s", key)
	}

	return data, nil
}

func (s *redisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "redis del %s", key)
	}

	return nil
}

func (s *redisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "redis scan %s", prefix)
	}

	return keys, nil
}

func (s *redisStore) Close() error {
	s.logger.Debug("Closing redis client")

	return errors.WithStack(s.client.Close())
}
