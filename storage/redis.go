package storage

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

var bgContext = context.Background()

// Key for the cached newest-first residency scan.
const ResidencyListCacheKey = "residencies:all"

var residencyCacheTTL = 30 * time.Second

func InitializeRedis(redisURL string, cacheTTL time.Duration) {
	if cacheTTL > 0 {
		residencyCacheTTL = cacheTTL
	}
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: "",
		DB:       0,
	})
}

// GetCachedResidencyList returns the cached listing payload, or "" on a
// miss. Cache errors degrade to a miss so the DB path still serves.
func GetCachedResidencyList() string {
	if Redis == nil {
		return ""
	}
	cached, err := Redis.Get(bgContext, ResidencyListCacheKey).Result()
	if err != nil {
		return ""
	}
	return cached
}

func SetCachedResidencyList(payload string) {
	if Redis == nil {
		return
	}
	Redis.Set(bgContext, ResidencyListCacheKey, payload, residencyCacheTTL)
}

// InvalidateResidencyList drops the cached scan after a write.
func InvalidateResidencyList() {
	if Redis == nil {
		return
	}
	Redis.Del(bgContext, ResidencyListCacheKey)
}
