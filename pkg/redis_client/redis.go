package redis_client

import (
	"context"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/globaltrack/globaltrack/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

var ErrNotConfigured = errors.New("redis address not configured")

func Connect(cfg config.RedisConfig) error {
	if cfg.Address == "" {
		return ErrNotConfigured
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient("globaltrack", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Connected to Redis")

	return nil
}

// IsConnected is false when the service runs without Redis
func IsConnected() bool {
	return Client != nil
}
