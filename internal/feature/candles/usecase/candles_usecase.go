// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"github.com/kumagai-school/kumagai-test/internal/feature/candles/domain/entity"
)

// CandleRepository はローソク足データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// FetchCandles は上流APIから1銘柄分の日足シリーズを取得します。
	FetchCandles(ctx context.Context, code string) ([]entity.Candle, error)
}

// candlesUsecase はローソク足データ操作のユースケースを定義します。
type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles は指定された銘柄のローソク足データを取得します。
// チャートデータがない銘柄は空スライスを返します（エラーにはしません）。
func (cu *candlesUsecase) GetCandles(ctx context.Context, code string) ([]entity.Candle, error) {
	cs, err := cu.candle.FetchCandles(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get candles %s: %w", code, err)
	}
	return cs, nil
}
