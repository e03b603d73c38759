// Package usecase は5ヶ月もみ合いブレイク銘柄のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/kumagai-school/kumagai-test/internal/feature/breakout/domain/entity"
)

// BreakoutRepository はブレイク銘柄データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type BreakoutRepository interface {
	FetchBreakouts(ctx context.Context) ([]entity.Breakout, error)
}

// breakoutUsecase はブレイク銘柄一覧のユースケースを定義します。
type breakoutUsecase struct {
	repo BreakoutRepository
}

// NewBreakoutUsecase はbreakoutUsecaseの新しいインスタンスを生成します。
func NewBreakoutUsecase(repo BreakoutRepository) *breakoutUsecase {
	return &breakoutUsecase{repo: repo}
}

// ListBreakouts はブレイク銘柄の一覧をブレイク日の新しい順に返します。
// 日付が解釈できなかった銘柄は末尾に回します。
func (u *breakoutUsecase) ListBreakouts(ctx context.Context) ([]entity.Breakout, error) {
	rows, err := u.repo.FetchBreakouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list breakouts: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].BreakDate, rows[j].BreakDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return rows, nil
}
