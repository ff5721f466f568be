package startup

import (
	"context"
	"time"

	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/storage"
	"github.com/votemonitor/internal/storage/memory"
	redisstorage "github.com/votemonitor/internal/storage/redis"
)

// ConnectCache returns the Redis credential cache, or the in-memory one when REDIS_URL is
// empty or dev is set.
func ConnectCache(cfg *config.Config, dev bool, maxWait time.Duration) (storage.CredentialCache, error) {
	if dev || cfg.Redis.URL == "" {
		logger.Info("credential cache: in-memory")
		return memory.New(), nil
	}
	client, err := withRetry("redis connect", maxWait, func() (*redisstorage.Client, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redisstorage.New(ctx, cfg.Redis.URL)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("credential cache: redis")
	return client, nil
}
