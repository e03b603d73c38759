package usecase

import (
	"context"
	"fmt"
	"time"

	screenerusecase "github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/domain/entity"
)

// WatchlistRepository は監視リストの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 掲載期限の判定はストアの責務ではなく、このユースケースが読み取り時に行います。
type WatchlistRepository interface {
	// Insert は新しいエントリを永続化します。重複登録の排除は行いません。
	Insert(ctx context.Context, e *entity.WatchlistEntry) error

	// ListByScope はスコープに一致する全エントリを登録の新しい順に返します。
	ListByScope(ctx context.Context, sessionKey, listType string) ([]entity.WatchlistEntry, error)

	// DeleteByID は採番済みIDでエントリを1件削除します。存在しないIDは何もしません。
	DeleteByID(ctx context.Context, id uint) error
}

// watchlistUsecase は監視リスト操作のユースケースを実装します。
type watchlistUsecase struct {
	repo WatchlistRepository
	loc  *time.Location
	now  func() time.Time
}

// NewWatchlistUsecase はwatchlistUsecaseの新しいインスタンスを生成します。
// 掲載期限は東証の営業日付に合わせて日本時間の日付で判定します。
func NewWatchlistUsecase(repo WatchlistRepository) *watchlistUsecase {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	return &watchlistUsecase{repo: repo, loc: loc, now: time.Now}
}

// Add は監視リストにエントリを1件登録します。
// コードは結合キーと同じ規則で正規化してから保存します。
func (u *watchlistUsecase) Add(ctx context.Context, e *entity.WatchlistEntry) error {
	e.Code = screenerusecase.NormalizeCode(e.Code)
	if e.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidEntry)
	}
	if e.SessionKey == "" {
		return fmt.Errorf("%w: session key is required", ErrInvalidEntry)
	}
	if e.HighDate.IsZero() {
		return fmt.Errorf("%w: high date is required", ErrInvalidEntry)
	}
	if e.ListType == "" {
		e.ListType = entity.DefaultListType
	}
	return u.repo.Insert(ctx, e)
}

// ListActive はスコープ内の掲載期間内エントリを登録の新しい順に返します。
// 期限切れ（高値日から7日超過）の行は表示から取り除きますが、ストアからは削除しません。
func (u *watchlistUsecase) ListActive(ctx context.Context, sessionKey, listType string) ([]entity.WatchlistEntry, error) {
	if listType == "" {
		listType = entity.DefaultListType
	}

	all, err := u.repo.ListByScope(ctx, sessionKey, listType)
	if err != nil {
		return nil, err
	}

	today := u.now().In(u.loc)
	active := make([]entity.WatchlistEntry, 0, len(all))
	for _, e := range all {
		if e.IsActive(today) {
			active = append(active, e)
		}
	}
	return active, nil
}

// Remove は監視リストからエントリを1件削除します。
// 既に存在しないIDの削除はエラーにしません（冪等）。
func (u *watchlistUsecase) Remove(ctx context.Context, id uint) error {
	return u.repo.DeleteByID(ctx, id)
}
