package repository

import (
	"context"
	"time"

	"pp_quest/internal/model"
	"pp_quest/pkg/logger"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 2 * time.Second

// RedisStore keeps the two state blobs as plain Redis strings.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, cfg Config) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	logger.Logger().Info("Connected to redis successfully", zap.String("addr", cfg.RedisAddr))

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read blob %s", key)
	}
	return raw, nil
}

func (s *RedisStore) LoadProfile(ctx context.Context) (*model.UserProfile, error) {
	raw, err := s.get(ctx, ProfileKey)
	if err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

func (s *RedisStore) LoadQuests(ctx context.Context) ([]model.Quest, error) {
	raw, err := s.get(ctx, QuestsKey)
	if err != nil {
		return nil, err
	}
	return decodeQuests(raw)
}

// SaveState writes both blobs in one MULTI/EXEC block.
func (s *RedisStore) SaveState(ctx context.Context, profile *model.UserProfile, quests []model.Quest) error {
	blobs, err := encodeState(profile, quests, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, b := range blobs {
			pipe.Set(ctx, b.Key, b.Value, 0)
		}
		return nil
	})
	return errors.Wrap(err, "failed to write state to redis")
}
