// Package cache はリポジトリインターフェースのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	breakoutentity "github.com/kumagai-school/kumagai-test/internal/feature/breakout/domain/entity"
	candleentity "github.com/kumagai-school/kumagai-test/internal/feature/candles/domain/entity"
	screenerusecase "github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
)

// SourceFetcher は上流APIの取得面を抽象化します。このパッケージが装飾する対象です。
type SourceFetcher interface {
	FetchSource(ctx context.Context, source string) ([]map[string]any, error)
	FetchHighLow(ctx context.Context, code string) (map[string]any, error)
	FetchCandles(ctx context.Context, code string) ([]candleentity.Candle, error)
	FetchBreakouts(ctx context.Context) ([]breakoutentity.Breakout, error)
}

// TTLConfig はソース種別ごとのキャッシュ保持時間です。
// 日次抽出は変化が遅く長め、一括現在値は鮮度が重要なため短めに取ります。
type TTLConfig struct {
	Extract  time.Duration
	Batch    time.Duration
	Candle   time.Duration
	Breakout time.Duration
}

// DefaultTTL は既定のキャッシュ保持時間を返します。
func DefaultTTL() TTLConfig {
	return TTLConfig{
		Extract:  30 * time.Minute,
		Batch:    5 * time.Minute,
		Candle:   15 * time.Minute,
		Breakout: time.Minute,
	}
}

// CachingSourceRepository はSourceFetcherをRedisキャッシュで装飾します。
// デコレーターパターンにより、内側のリポジトリを変更せず透過的にキャッシュを追加します。
// キャッシュはプロセス横断で共有され、複数セッションが同一の取得結果を読みます。
type CachingSourceRepository struct {
	inner     SourceFetcher
	rdb       *redis.Client
	ttl       TTLConfig
	namespace string
}

// CachingSourceRepositoryがSourceRepositoryを実装していることをコンパイル時に検証します。
var _ screenerusecase.SourceRepository = (*CachingSourceRepository)(nil)

// NewCachingSourceRepository はSourceFetcherをRedisキャッシュで装飾します。
// namespaceが空の場合は"tower"を使用します。ゼロ値のTTLには既定値を適用します。
func NewCachingSourceRepository(rdb *redis.Client, ttl TTLConfig, inner SourceFetcher, namespace string) *CachingSourceRepository {
	def := DefaultTTL()
	if ttl.Extract <= 0 {
		ttl.Extract = def.Extract
	}
	if ttl.Batch <= 0 {
		ttl.Batch = def.Batch
	}
	if ttl.Candle <= 0 {
		ttl.Candle = def.Candle
	}
	if ttl.Breakout <= 0 {
		ttl.Breakout = def.Breakout
	}
	if namespace == "" {
		namespace = "tower"
	}
	return &CachingSourceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchSource は論理ソースのデータセットをキャッシュ優先で取得します。
func (c *CachingSourceRepository) FetchSource(ctx context.Context, source string) ([]map[string]any, error) {
	ttl := c.ttl.Extract
	if source == screenerusecase.SourceBatch {
		ttl = c.ttl.Batch
	}
	return fetchCached(ctx, c, c.key("source", source), ttl, func(ctx context.Context) ([]map[string]any, error) {
		return c.inner.FetchSource(ctx, source)
	})
}

// FetchHighLow は1銘柄分の高値・安値データをキャッシュ優先で取得します。
func (c *CachingSourceRepository) FetchHighLow(ctx context.Context, code string) (map[string]any, error) {
	return fetchCached(ctx, c, c.key("highlow", code), c.ttl.Extract, func(ctx context.Context) (map[string]any, error) {
		return c.inner.FetchHighLow(ctx, code)
	})
}

// FetchCandles は1銘柄分のローソク足シリーズをキャッシュ優先で取得します。
func (c *CachingSourceRepository) FetchCandles(ctx context.Context, code string) ([]candleentity.Candle, error) {
	return fetchCached(ctx, c, c.key("candle", code), c.ttl.Candle, func(ctx context.Context) ([]candleentity.Candle, error) {
		return c.inner.FetchCandles(ctx, code)
	})
}

// FetchBreakouts はブレイク銘柄一覧をキャッシュ優先で取得します。
func (c *CachingSourceRepository) FetchBreakouts(ctx context.Context) ([]breakoutentity.Breakout, error) {
	return fetchCached(ctx, c, c.key("breakout", "5m"), c.ttl.Breakout, func(ctx context.Context) ([]breakoutentity.Breakout, error) {
		return c.inner.FetchBreakouts(ctx)
	})
}

// InvalidateAll はこのリポジトリのキャッシュエントリをすべて削除します。
// プロセス起動直後の最初のリクエストが境界上の古いキャッシュを読まないよう、
// 起動時に1回呼び出します。
func (c *CachingSourceRepository) InvalidateAll(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// fetchCached はキャッシュを確認し、ミス時はfetchを実行して結果を保存します。
// Redis未設定ならキャッシュをバイパスします。書き込みはベストエフォートです。
func fetchCached[T any](ctx context.Context, c *CachingSourceRepository, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if c.rdb == nil {
		return fetch(ctx)
	}

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) 上流から取得
	out, err := fetch(ctx)
	if err != nil {
		return out, err
	}

	// 3) キャッシュに保存（失敗しても結果は返す）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttl).Err()
	}
	return out, nil
}

// key はキャッシュキーを生成します。
func (c *CachingSourceRepository) key(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, safe(id))
}

// deleteByPattern はSCANでパターンに一致するキーをすべて削除します。
func (c *CachingSourceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe はRedisキーとして問題になる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
