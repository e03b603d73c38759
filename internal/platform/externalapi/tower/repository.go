package tower

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	breakoutentity "github.com/kumagai-school/kumagai-test/internal/feature/breakout/domain/entity"
	candleentity "github.com/kumagai-school/kumagai-test/internal/feature/candles/domain/entity"
	screenerusecase "github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
	"github.com/kumagai-school/kumagai-test/internal/platform/externalapi/tower/dto"
	"github.com/kumagai-school/kumagai-test/internal/shared/ratelimiter"
)

// FetchError は上流Tower APIの取得失敗を表します。
// どの論理ソースで失敗したかを保持し、呼び出し側が部分提供か中断かを判断できるようにします。
type FetchError struct {
	Source string
	Err    error
}

// Error はerrorインターフェースを実装します。
func (e *FetchError) Error() string {
	return fmt.Sprintf("tower fetch %s: %v", e.Source, e.Err)
}

// Unwrap はラップされた原因エラーを返します。
func (e *FetchError) Unwrap() error { return e.Err }

// TowerRepository はTower APIから抽出・現在値・ローソク足・ブレイクデータを取得する
// SourceRepository実装です。
type TowerRepository struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// TowerRepositoryがSourceRepositoryを実装していることをコンパイル時に検証します。
var _ screenerusecase.SourceRepository = (*TowerRepository)(nil)

// NewTowerRepository は指定された設定とHTTPクライアントでTowerRepositoryの新しいインスタンスを生成します。
// limiterがnilの場合はレート制限を行いません。
func NewTowerRepository(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *TowerRepository {
	return &TowerRepository{cfg: cfg, client: client, limiter: limiter}
}

// sourcePath は論理ソースキーを上流のパスに対応付けます。
var sourcePath = map[string]string{
	screenerusecase.SourceToday:      "/api/highlow/today",
	screenerusecase.SourceYesterday:  "/api/highlow/yesterday",
	screenerusecase.SourceTarget2Day: "/api/highlow/target2day",
	screenerusecase.SourceTarget3Day: "/api/highlow/target3day",
	screenerusecase.SourceTarget4Day: "/api/highlow/target4day",
	screenerusecase.SourceTarget5Day: "/api/highlow/target5day",
	screenerusecase.SourceBatch:      "/api/highlow/batch",
}

// FetchSource は論理ソースキーに対応するデータセットを生レコードのまま取得します。
func (t *TowerRepository) FetchSource(ctx context.Context, source string) ([]map[string]any, error) {
	path, ok := sourcePath[source]
	if !ok {
		return nil, &FetchError{Source: source, Err: screenerusecase.ErrUnknownSource}
	}

	// 一括現在値フィードは走査範囲が広く遅いため、読み取り上限を長く取る
	timeout := t.cfg.ExtractTimeout
	if source == screenerusecase.SourceBatch {
		timeout = t.cfg.BatchTimeout
	}

	var rows []map[string]any
	if err := t.getJSON(ctx, source, path, nil, timeout, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchHighLow は1銘柄分の高値・安値データを取得します。
func (t *TowerRepository) FetchHighLow(ctx context.Context, code string) (map[string]any, error) {
	q := url.Values{}
	q.Set("code", code)

	var row map[string]any
	if err := t.getJSON(ctx, "highlow:"+code, "/api/highlow", q, t.cfg.ExtractTimeout, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// FetchCandles は1銘柄分の日足ローソク足シリーズを取得します。
func (t *TowerRepository) FetchCandles(ctx context.Context, code string) ([]candleentity.Candle, error) {
	q := url.Values{}
	q.Set("code", code)

	var body dto.CandleSeriesResponse
	if err := t.getJSON(ctx, "candle:"+code, "/api/candle", q, t.cfg.ExtractTimeout, &body); err != nil {
		return nil, err
	}

	candles := make([]candleentity.Candle, 0, len(body.Data))
	for _, v := range body.Data {
		// 日付をパース（時刻付きとの両対応）
		d, err := time.Parse("2006-01-02", v.Date)
		if err != nil {
			d, err = time.Parse("2006-01-02 15:04:05", v.Date)
			if err != nil {
				return nil, &FetchError{Source: "candle:" + code, Err: fmt.Errorf("parse date %q: %w", v.Date, err)}
			}
		}
		candles = append(candles, candleentity.Candle{
			Date:   d,
			Open:   v.Open,
			High:   v.High,
			Low:    v.Low,
			Close:  v.Close,
			Volume: v.Volume,
		})
	}
	return candles, nil
}

// FetchBreakouts は5ヶ月もみ合いブレイク銘柄の一覧を取得します。
func (t *TowerRepository) FetchBreakouts(ctx context.Context) ([]breakoutentity.Breakout, error) {
	var rows []dto.BreakoutRow
	if err := t.getJSON(ctx, "5m_breakout", "/api/pattern/5m_breakout", nil, t.cfg.ExtractTimeout, &rows); err != nil {
		return nil, err
	}

	out := make([]breakoutentity.Breakout, 0, len(rows))
	for _, v := range rows {
		b := breakoutentity.Breakout{
			Code:  screenerusecase.NormalizeCode(v.Code),
			Name:  v.Name,
			Close: v.Close,
		}
		// 上流のブレイク日はYYYYMMDD形式。解釈できない値は欠損のまま通す
		if d, err := time.Parse("20060102", v.BreakDate); err == nil {
			b.BreakDate = &d
		}
		out = append(out, b)
	}
	return out, nil
}

// getJSON はタイムアウト付きでGETリクエストを実行し、JSONレスポンスをoutにデコードします。
// 失敗はすべてソースキー付きのFetchErrorに包んで返します。
func (t *TowerRepository) getJSON(ctx context.Context, source, path string, q url.Values, timeout time.Duration, out any) error {
	if t.limiter != nil {
		t.limiter.WaitIfNeeded()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := t.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}

	res, err := t.client.Do(req)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "source", source, "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &FetchError{Source: source, Err: fmt.Errorf("http %d", res.StatusCode)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &FetchError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
