// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/kumagai-school/kumagai-test/internal/app/config"
	"github.com/kumagai-school/kumagai-test/internal/platform/cache"
	"github.com/kumagai-school/kumagai-test/internal/platform/externalapi/tower"
	infrahttp "github.com/kumagai-school/kumagai-test/internal/platform/http"
	"github.com/kumagai-school/kumagai-test/internal/shared/ratelimiter"
)

// NewTowerSource creates a fully configured Tower API client wrapped in the
// Redis source cache. rdbがnilの場合、キャッシュはバイパスされます。
func NewTowerSource(rdb *redis.Client, appCfg *appconfig.Config) *cache.CachingSourceRepository {
	cfg := tower.LoadConfig()
	// クライアント全体のタイムアウトは最長の一括現在値フィードに合わせ、
	// 各呼び出しはコンテキストで短い上限を課す
	httpClient := infrahttp.NewHTTPClient(cfg.BatchTimeout)
	limiter := ratelimiter.NewRateLimiter(60, time.Minute)
	repo := tower.NewTowerRepository(cfg, httpClient, limiter)

	ttl := cache.TTLConfig{
		Extract:  time.Duration(appCfg.Cache.ExtractSeconds) * time.Second,
		Batch:    time.Duration(appCfg.Cache.BatchSeconds) * time.Second,
		Candle:   time.Duration(appCfg.Cache.CandleSeconds) * time.Second,
		Breakout: time.Duration(appCfg.Cache.BreakoutSeconds) * time.Second,
	}
	return cache.NewCachingSourceRepository(rdb, ttl, repo, "tower")
}
