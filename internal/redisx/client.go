package redisx

import (
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// New creates a Redis client for the configured address.
func New() *redis.Client {
	addr := viper.GetString("redis.addr")
	if addr == "" {
		addr = "redis:6379"
	}

	return redis.NewClient(&redis.Options{Addr: addr})
}
