package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	breakoutentity "github.com/kumagai-school/kumagai-test/internal/feature/breakout/domain/entity"
	candleentity "github.com/kumagai-school/kumagai-test/internal/feature/candles/domain/entity"
	screenerusecase "github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
)

// mockSourceFetcher はテスト用のSourceFetcherモック実装です。
type mockSourceFetcher struct {
	fetchSourceFn    func(ctx context.Context, source string) ([]map[string]any, error)
	fetchHighLowFn   func(ctx context.Context, code string) (map[string]any, error)
	fetchCandlesFn   func(ctx context.Context, code string) ([]candleentity.Candle, error)
	fetchBreakoutsFn func(ctx context.Context) ([]breakoutentity.Breakout, error)
}

// FetchSource はモックのFetchSource関数を呼び出します。
func (m *mockSourceFetcher) FetchSource(ctx context.Context, source string) ([]map[string]any, error) {
	if m.fetchSourceFn != nil {
		return m.fetchSourceFn(ctx, source)
	}
	return nil, nil
}

// FetchHighLow はモックのFetchHighLow関数を呼び出します。
func (m *mockSourceFetcher) FetchHighLow(ctx context.Context, code string) (map[string]any, error) {
	if m.fetchHighLowFn != nil {
		return m.fetchHighLowFn(ctx, code)
	}
	return nil, nil
}

// FetchCandles はモックのFetchCandles関数を呼び出します。
func (m *mockSourceFetcher) FetchCandles(ctx context.Context, code string) ([]candleentity.Candle, error) {
	if m.fetchCandlesFn != nil {
		return m.fetchCandlesFn(ctx, code)
	}
	return nil, nil
}

// FetchBreakouts はモックのFetchBreakouts関数を呼び出します。
func (m *mockSourceFetcher) FetchBreakouts(ctx context.Context) ([]breakoutentity.Breakout, error) {
	if m.fetchBreakoutsFn != nil {
		return m.fetchBreakoutsFn(ctx)
	}
	return nil, nil
}

// TestNewCachingSourceRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingSourceRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               TTLConfig
		namespace         string
		expectedTTL       TTLConfig
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               TTLConfig{},
			namespace:         "",
			expectedTTL:       DefaultTTL(),
			expectedNamespace: "tower",
		},
		{
			name:              "negative ttl uses default",
			ttl:               TTLConfig{Extract: -time.Minute, Batch: -time.Minute},
			namespace:         "",
			expectedTTL:       DefaultTTL(),
			expectedNamespace: "tower",
		},
		{
			name:      "custom values preserved",
			ttl:       TTLConfig{Extract: time.Hour, Batch: 2 * time.Minute, Candle: 10 * time.Minute, Breakout: 30 * time.Second},
			namespace: "custom",
			expectedTTL: TTLConfig{
				Extract:  time.Hour,
				Batch:    2 * time.Minute,
				Candle:   10 * time.Minute,
				Breakout: 30 * time.Second,
			},
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingSourceRepository(nil, tt.ttl, &mockSourceFetcher{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %+v, got %+v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingSourceRepository_FetchSource_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingSourceRepository_FetchSource_NilRedis(t *testing.T) {
	t.Parallel()

	expectedRows := []map[string]any{{"code": "0093", "high": 155.5, "low": 100.2}}
	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			return expectedRows, nil
		},
	}

	repo := NewCachingSourceRepository(nil, DefaultTTL(), inner, "tower")

	rows, err := repo.FetchSource(context.Background(), screenerusecase.SourceToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != len(expectedRows) {
		t.Errorf("expected %d rows, got %d", len(expectedRows), len(rows))
	}
}

// TestCachingSourceRepository_FetchSource_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingSourceRepository_FetchSource_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedRows := []map[string]any{{"code": "0093", "high": 155.5, "low": 100.2}}
	cachedJSON, _ := json.Marshal(cachedRows)

	mock.ExpectGet("tower:source:today").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, DefaultTTL(), inner, "tower")
	rows, err := repo.FetchSource(context.Background(), screenerusecase.SourceToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_FetchSource_CacheMiss はキャッシュミス時に上流から取得し、ソース種別のTTLで保存することを検証します。
func TestCachingSourceRepository_FetchSource_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedRows := []map[string]any{{"code": "0093", "high": 155.5, "low": 100.2}}
	expectedJSON, _ := json.Marshal(expectedRows)

	ttl := TTLConfig{Extract: 30 * time.Minute, Batch: 5 * time.Minute, Candle: 15 * time.Minute, Breakout: time.Minute}

	// Cache miss
	mock.ExpectGet("tower:source:today").RedisNil()
	// Set cache after fetching from inner
	mock.ExpectSet("tower:source:today", expectedJSON, ttl.Extract).SetVal("OK")

	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			return expectedRows, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, ttl, inner, "tower")
	rows, err := repo.FetchSource(context.Background(), screenerusecase.SourceToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_FetchSource_BatchTTL は一括現在値フィードに短いTTLが適用されることを検証します。
func TestCachingSourceRepository_FetchSource_BatchTTL(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedRows := []map[string]any{{"code": "0093", "current_price": 128.0}}
	expectedJSON, _ := json.Marshal(expectedRows)

	ttl := TTLConfig{Extract: 30 * time.Minute, Batch: 5 * time.Minute, Candle: 15 * time.Minute, Breakout: time.Minute}

	mock.ExpectGet("tower:source:batch").RedisNil()
	mock.ExpectSet("tower:source:batch", expectedJSON, ttl.Batch).SetVal("OK")

	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			return expectedRows, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, ttl, inner, "tower")
	if _, err := repo.FetchSource(context.Background(), screenerusecase.SourceBatch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_FetchSource_InnerError は内部リポジトリのエラーが伝播されることを検証します。
func TestCachingSourceRepository_FetchSource_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("upstream unavailable")

	mock.ExpectGet("tower:source:today").RedisNil()

	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingSourceRepository(rdb, DefaultTTL(), inner, "tower")
	_, err := repo.FetchSource(context.Background(), screenerusecase.SourceToday)

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingSourceRepository_FetchSource_CorruptedCache は破損したキャッシュを検出・削除し、上流にフォールバックすることを検証します。
func TestCachingSourceRepository_FetchSource_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedRows := []map[string]any{{"code": "0093"}}
	expectedJSON, _ := json.Marshal(expectedRows)

	ttl := DefaultTTL()

	// Return invalid JSON from cache
	mock.ExpectGet("tower:source:today").SetVal("invalid json")
	// Delete corrupted cache
	mock.ExpectDel("tower:source:today").SetVal(1)
	// Set new cache after fetching from inner
	mock.ExpectSet("tower:source:today", expectedJSON, ttl.Extract).SetVal("OK")

	inner := &mockSourceFetcher{
		fetchSourceFn: func(ctx context.Context, source string) ([]map[string]any, error) {
			return expectedRows, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, ttl, inner, "tower")
	rows, err := repo.FetchSource(context.Background(), screenerusecase.SourceToday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_FetchHighLow_Key は銘柄コードがキャッシュキーに反映されることを検証します。
func TestCachingSourceRepository_FetchHighLow_Key(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedRow := map[string]any{"code": "0093", "high": 155.5}
	expectedJSON, _ := json.Marshal(expectedRow)

	ttl := DefaultTTL()
	mock.ExpectGet("tower:highlow:0093").RedisNil()
	mock.ExpectSet("tower:highlow:0093", expectedJSON, ttl.Extract).SetVal("OK")

	inner := &mockSourceFetcher{
		fetchHighLowFn: func(ctx context.Context, code string) (map[string]any, error) {
			return expectedRow, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, ttl, inner, "tower")
	row, err := repo.FetchHighLow(context.Background(), "0093")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row["high"] != 155.5 {
		t.Errorf("expected high 155.5, got %v", row["high"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_FetchBreakouts_Key はブレイク一覧のキャッシュキーとTTLを検証します。
func TestCachingSourceRepository_FetchBreakouts_Key(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []breakoutentity.Breakout{{Code: "0093", Name: "筑邦銀行"}}
	expectedJSON, _ := json.Marshal(expected)

	ttl := DefaultTTL()
	mock.ExpectGet("tower:breakout:5m").RedisNil()
	mock.ExpectSet("tower:breakout:5m", expectedJSON, ttl.Breakout).SetVal("OK")

	inner := &mockSourceFetcher{
		fetchBreakoutsFn: func(ctx context.Context) ([]breakoutentity.Breakout, error) {
			return expected, nil
		},
	}

	repo := NewCachingSourceRepository(rdb, ttl, inner, "tower")
	breakouts, err := repo.FetchBreakouts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breakouts) != 1 {
		t.Errorf("expected 1 breakout, got %d", len(breakouts))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_InvalidateAll はSCANとDELでネームスペース配下のキーがすべて削除されることを検証します。
func TestCachingSourceRepository_InvalidateAll(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "tower:*", 200).SetVal([]string{"tower:source:today", "tower:breakout:5m"}, 0)
	mock.ExpectDel("tower:source:today", "tower:breakout:5m").SetVal(2)

	repo := NewCachingSourceRepository(rdb, DefaultTTL(), &mockSourceFetcher{}, "tower")
	if err := repo.InvalidateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSourceRepository_InvalidateAll_NilRedis はRedisがnilの場合にInvalidateAllが何もせず成功することを検証します。
func TestCachingSourceRepository_InvalidateAll_NilRedis(t *testing.T) {
	t.Parallel()

	repo := NewCachingSourceRepository(nil, DefaultTTL(), &mockSourceFetcher{}, "tower")
	if err := repo.InvalidateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"0093", "0093"},
		{"highlow code", "highlow_code"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := safe(tt.input)
			if result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
