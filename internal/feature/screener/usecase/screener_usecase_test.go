package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
)

// mockSourceRepository はSourceRepositoryインターフェースのモック実装です。
type mockSourceRepository struct {
	FetchSourceFunc  func(ctx context.Context, source string) ([]map[string]any, error)
	FetchHighLowFunc func(ctx context.Context, code string) (map[string]any, error)
}

// FetchSource はモックのFetchSource関数を呼び出します。
func (m *mockSourceRepository) FetchSource(ctx context.Context, source string) ([]map[string]any, error) {
	if m.FetchSourceFunc != nil {
		return m.FetchSourceFunc(ctx, source)
	}
	return nil, nil
}

// FetchHighLow はモックのFetchHighLow関数を呼び出します。
func (m *mockSourceRepository) FetchHighLow(ctx context.Context, code string) (map[string]any, error) {
	if m.FetchHighLowFunc != nil {
		return m.FetchHighLowFunc(ctx, code)
	}
	return nil, nil
}

// TestScreenerUsecase_Screen_UnknownSource は未知のソースキーでErrUnknownSourceが返されることを検証します。
func TestScreenerUsecase_Screen_UnknownSource(t *testing.T) {
	t.Parallel()

	uc := usecase.NewScreenerUsecase(&mockSourceRepository{}, nil)

	for _, source := range []string{"", "tomorrow", "batch", "TODAY"} {
		rows, err := uc.Screen(context.Background(), source, true)

		assert.ErrorIs(t, err, usecase.ErrUnknownSource, "source %q", source)
		assert.Nil(t, rows)
	}
}

// TestScreenerUsecase_Screen_ExtractFailure は一次ソースの取得失敗がエラーとして返されることを検証します。
func TestScreenerUsecase_Screen_ExtractFailure(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("upstream unavailable")
	mockRepo := &mockSourceRepository{
		FetchSourceFunc: func(ctx context.Context, source string) ([]map[string]any, error) {
			return nil, fetchErr
		},
	}
	uc := usecase.NewScreenerUsecase(mockRepo, nil)

	rows, err := uc.Screen(context.Background(), usecase.SourceToday, true)

	assert.ErrorIs(t, err, fetchErr)
	assert.Nil(t, rows)
}

// TestScreenerUsecase_Screen_MergesBatch は抽出行と一括現在値フィードが正規化済みコードで左結合されることを検証します。
func TestScreenerUsecase_Screen_MergesBatch(t *testing.T) {
	t.Parallel()

	mockRepo := &mockSourceRepository{
		FetchSourceFunc: func(ctx context.Context, source string) ([]map[string]any, error) {
			switch source {
			case usecase.SourceToday:
				return []map[string]any{
					// コードは上流の形式ゆれを模して短縮形で返す
					{"code": "93", "name": "筑邦銀行", "high": 155.5, "low": 100.2},
					{"code": "6501", "name": "日立製作所", "high": 4200.0, "low": 3100.0},
				}, nil
			case usecase.SourceBatch:
				return []map[string]any{
					{"code": float64(93), "current_price": 128.0, "halfPriceDistancePercent": 0.12},
				}, nil
			default:
				return nil, errors.New("unexpected source: " + source)
			}
		},
	}
	uc := usecase.NewScreenerUsecase(mockRepo, nil)

	rows, err := uc.Screen(context.Background(), usecase.SourceToday, true)

	assert.NoError(t, err)
	assert.Len(t, rows, 2, "merge must not drop or duplicate extract rows")

	// バッチに存在する銘柄は現在値が埋まる
	assert.Equal(t, "0093", rows[0].Code)
	assert.Equal(t, 127.85, rows[0].HalfRetrace)
	if assert.NotNil(t, rows[0].CurrentPrice) {
		assert.Equal(t, 128.0, *rows[0].CurrentPrice)
	}
	if assert.NotNil(t, rows[0].DistancePercent) {
		assert.Equal(t, 0.12, *rows[0].DistancePercent)
	}

	// バッチに存在しない銘柄は現在値系フィールドがnilのまま
	assert.Equal(t, "6501", rows[1].Code)
	assert.Equal(t, 3650.0, rows[1].HalfRetrace)
	assert.Nil(t, rows[1].CurrentPrice)
	assert.Nil(t, rows[1].DistancePercent)
}

// TestScreenerUsecase_Screen_BatchFailureDegrades は二次ソースの失敗で一覧が落ちないことを検証します。
func TestScreenerUsecase_Screen_BatchFailureDegrades(t *testing.T) {
	t.Parallel()

	mockRepo := &mockSourceRepository{
		FetchSourceFunc: func(ctx context.Context, source string) ([]map[string]any, error) {
			if source == usecase.SourceBatch {
				return nil, errors.New("batch feed down")
			}
			return []map[string]any{
				{"code": "6501", "high": 4200.0, "low": 3100.0},
			}, nil
		},
	}
	uc := usecase.NewScreenerUsecase(mockRepo, nil)

	rows, err := uc.Screen(context.Background(), usecase.SourceToday, true)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, rows[0].CurrentPrice)
	assert.Nil(t, rows[0].DistancePercent)
}

// TestScreenerUsecase_Screen_WithoutCurrent はwithCurrent=falseでバッチフィードを参照しないことを検証します。
func TestScreenerUsecase_Screen_WithoutCurrent(t *testing.T) {
	t.Parallel()

	batchCalled := false
	mockRepo := &mockSourceRepository{
		FetchSourceFunc: func(ctx context.Context, source string) ([]map[string]any, error) {
			if source == usecase.SourceBatch {
				batchCalled = true
				return nil, nil
			}
			return []map[string]any{
				{"code": "6501", "high": 4200.0, "low": 3100.0},
			}, nil
		},
	}
	uc := usecase.NewScreenerUsecase(mockRepo, nil)

	rows, err := uc.Screen(context.Background(), usecase.SourceYesterday, false)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.False(t, batchCalled, "batch feed must not be fetched when withCurrent is false")
}

// TestScreenerUsecase_Screen_AppliesExclusion は除外リストの銘柄が結合前に取り除かれることを検証します。
func TestScreenerUsecase_Screen_AppliesExclusion(t *testing.T) {
	t.Parallel()

	mockRepo := &mockSourceRepository{
		FetchSourceFunc: func(ctx context.Context, source string) ([]map[string]any, error) {
			if source == usecase.SourceBatch {
				return nil, nil
			}
			return []map[string]any{
				{"code": "9501", "high": 100.0, "low": 50.0},
				{"code": float64(9432), "high": 100.0, "low": 50.0},
				{"code": "7203", "high": 100.0, "low": 50.0},
				{"code": "6501", "high": 100.0, "low": 50.0},
			}, nil
		},
	}
	uc := usecase.NewScreenerUsecase(mockRepo, []string{"9501", "9432", "7203"})

	rows, err := uc.Screen(context.Background(), usecase.SourceToday, true)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "6501", rows[0].Code)
}

// TestScreenerUsecase_HighLowDetail は1銘柄詳細の取得と正規化を検証します。
func TestScreenerUsecase_HighLowDetail(t *testing.T) {
	t.Parallel()

	t.Run("success: code is normalized before the fetch", func(t *testing.T) {
		t.Parallel()

		var fetchedCode string
		mockRepo := &mockSourceRepository{
			FetchHighLowFunc: func(ctx context.Context, code string) (map[string]any, error) {
				fetchedCode = code
				return map[string]any{"code": code, "high": 155.5, "low": 100.2}, nil
			},
		}
		uc := usecase.NewScreenerUsecase(mockRepo, nil)

		row, err := uc.HighLowDetail(context.Background(), "93")

		assert.NoError(t, err)
		assert.Equal(t, "0093", fetchedCode)
		if assert.NotNil(t, row) {
			assert.Equal(t, "0093", row.Code)
			assert.Equal(t, 155.5, row.High)
		}
	})

	t.Run("failure: fetch error is wrapped", func(t *testing.T) {
		t.Parallel()

		fetchErr := errors.New("upstream unavailable")
		mockRepo := &mockSourceRepository{
			FetchHighLowFunc: func(ctx context.Context, code string) (map[string]any, error) {
				return nil, fetchErr
			},
		}
		uc := usecase.NewScreenerUsecase(mockRepo, nil)

		row, err := uc.HighLowDetail(context.Background(), "0093")

		assert.ErrorIs(t, err, fetchErr)
		assert.Nil(t, row)
	})

	t.Run("failure: record without prices yields ErrNoData", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockSourceRepository{
			FetchHighLowFunc: func(ctx context.Context, code string) (map[string]any, error) {
				return map[string]any{"code": code}, nil
			},
		}
		uc := usecase.NewScreenerUsecase(mockRepo, nil)

		row, err := uc.HighLowDetail(context.Background(), "0093")

		assert.ErrorIs(t, err, usecase.ErrNoData)
		assert.Nil(t, row)
	})
}
