package config

import (
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a redis client for the listing cache, or nil when
// REDIS_ADDR is unset (the cache degrades to a no-op).
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	if !strings.Contains(addr, ":") {
		addr = addr + ":6379"
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: os.Getenv("REDIS_USER"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}
