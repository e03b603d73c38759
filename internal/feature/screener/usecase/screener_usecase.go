package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kumagai-school/kumagai-test/internal/feature/screener/domain/entity"
	"github.com/kumagai-school/kumagai-test/internal/shared/pricing"
)

// 抽出ソースの論理キー。上流APIのエンドポイントに1対1で対応します。
const (
	SourceToday      = "today"
	SourceYesterday  = "yesterday"
	SourceTarget2Day = "target2day"
	SourceTarget3Day = "target3day"
	SourceTarget4Day = "target4day"
	SourceTarget5Day = "target5day"

	// SourceBatch は全銘柄の現在値と半値押し距離を返す二次フィードです。
	SourceBatch = "batch"
)

// ExtractSources は日次抽出ソースの一覧です（高値を付けた日ごと）。
var ExtractSources = []string{
	SourceToday,
	SourceYesterday,
	SourceTarget2Day,
	SourceTarget3Day,
	SourceTarget4Day,
	SourceTarget5Day,
}

// SourceRepository は上流の高値・安値APIの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SourceRepository interface {
	// FetchSource は論理ソースキーに対応するデータセットを生レコードのまま取得します。
	FetchSource(ctx context.Context, source string) ([]map[string]any, error)

	// FetchHighLow は1銘柄分の高値・安値データを取得します。
	FetchHighLow(ctx context.Context, code string) (map[string]any, error)
}

// screenerUsecase は抽出データの取得・正規化・結合を担うユースケースです。
type screenerUsecase struct {
	source  SourceRepository
	exclude map[string]struct{}
}

// NewScreenerUsecase はscreenerUsecaseの新しいインスタンスを生成します。
// excludeCodes は表示から除外する銘柄コードの運用ポリシーです（正規化してから保持）。
func NewScreenerUsecase(source SourceRepository, excludeCodes []string) *screenerUsecase {
	exclude := make(map[string]struct{}, len(excludeCodes))
	for _, c := range excludeCodes {
		exclude[NormalizeCode(c)] = struct{}{}
	}
	return &screenerUsecase{source: source, exclude: exclude}
}

// Screen は指定ソースの抽出データを取得し、正規化・除外フィルター・現在値結合を行います。
//
// 一次ソース（抽出データ）の取得失敗はエラーとして返します。
// 二次ソース（一括現在値）の取得失敗は結果を落とさず、現在値系フィールドをnilのまま返します。
// 補助データの欠損で一覧自体が落ちることを避けるためです。
func (u *screenerUsecase) Screen(ctx context.Context, source string, withCurrent bool) ([]entity.EnrichedRow, error) {
	if !isExtractSource(source) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	raw, err := u.source.FetchSource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	rows := u.applyExclusion(NormalizeExtract(raw))

	var batch []entity.BatchRow
	if withCurrent && len(rows) > 0 {
		rawBatch, err := u.source.FetchSource(ctx, SourceBatch)
		if err != nil {
			// 二次ソースの失敗は表示内容の劣化にとどめる
			slog.Warn("batch feed unavailable, serving extract only", "source", source, "error", err)
		} else {
			batch = NormalizeBatch(rawBatch)
		}
	}

	return mergeBatch(rows, batch), nil
}

// HighLowDetail は1銘柄分の高値・安値データを取得して正規化します。
func (u *screenerUsecase) HighLowDetail(ctx context.Context, code string) (*entity.ExtractRow, error) {
	raw, err := u.source.FetchHighLow(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("fetch highlow %s: %w", code, err)
	}

	rows := NormalizeExtract([]map[string]any{raw})
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return &rows[0], nil
}

// applyExclusion は除外リストに含まれるコードの行を取り除きます。
func (u *screenerUsecase) applyExclusion(rows []entity.ExtractRow) []entity.ExtractRow {
	if len(u.exclude) == 0 {
		return rows
	}
	out := rows[:0]
	for _, r := range rows {
		if _, ok := u.exclude[r.Code]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeBatch は抽出行に一括現在値フィードを正規化済みコードで左結合します。
// 抽出行は1行も落とさず、1行も複製しません。バッチに対応コードがなければ
// 現在値系フィールドはnilのままです。
func mergeBatch(rows []entity.ExtractRow, batch []entity.BatchRow) []entity.EnrichedRow {
	index := make(map[string]entity.BatchRow, len(batch))
	for _, b := range batch {
		index[b.Code] = b
	}

	out := make([]entity.EnrichedRow, 0, len(rows))
	for _, r := range rows {
		e := entity.EnrichedRow{
			ExtractRow:  r,
			HalfRetrace: pricing.HalfRetraceSimpleAverage(r.High, r.Low),
		}
		if b, ok := index[r.Code]; ok {
			e.CurrentPrice = b.CurrentPrice
			e.DistancePercent = b.DistancePercent
		}
		out = append(out, e)
	}
	return out
}

// isExtractSource は日次抽出ソースとして有効なキーかを判定します。
func isExtractSource(source string) bool {
	for _, s := range ExtractSources {
		if s == source {
			return true
		}
	}
	return false
}
