package utils

import (
	"context"
	"log"
	"time"

	"carental/config"

	"github.com/go-redis/redis/v8"
)

// AuthCachePrefix namespaces session token hashes in the auth cache.
const AuthCachePrefix = "auth:"

var (
	// CacheClient serves general-purpose caching (dashboard metrics and the
	// like).
	CacheClient *redis.Client
	// AuthCacheClient holds session token hashes on its own redis DB, so
	// flushing the general cache never logs anyone out.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int, label string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", label, err)
	}
	return client
}

// InitCache connects the general cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "cache")
}

// GetCacheClient returns the general cache client, connecting lazily if
// needed.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache connects the session cache client.
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "auth cache")
}

// GetAuthCacheClient returns the session cache client, connecting lazily if
// needed.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
