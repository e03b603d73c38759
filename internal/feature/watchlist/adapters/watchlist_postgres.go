// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/domain/entity"
	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/usecase"
)

// watchlistPostgres はWatchlistRepositoryインターフェースのPostgres実装です。
// GORMを使用してデータベース操作を行います。
type watchlistPostgres struct {
	db *gorm.DB
}

// watchlistPostgresがWatchlistRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WatchlistRepository = (*watchlistPostgres)(nil)

// NewWatchlistPostgres は指定されたgorm.DB接続でwatchlistPostgresの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewWatchlistPostgres(db *gorm.DB) *watchlistPostgres {
	return &watchlistPostgres{db: db}
}

// Insert はエントリをデータベースに追加します。
// 同一セッション・同一コードの重複登録は許容します（一意制約なし）。
func (r *watchlistPostgres) Insert(ctx context.Context, e *entity.WatchlistEntry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return &usecase.StoreError{Op: "insert", Err: translate(err)}
	}
	return nil
}

// ListByScope はセッションキーと種別に一致する全エントリをID降順（登録の新しい順）で返します。
// 掲載期限のフィルタリングは行いません。ストアは単純なCRUD層にとどめます。
func (r *watchlistPostgres) ListByScope(ctx context.Context, sessionKey, listType string) ([]entity.WatchlistEntry, error) {
	var out []entity.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("session_key = ? AND list_type = ?", sessionKey, listType).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, &usecase.StoreError{Op: "list", Err: translate(err)}
	}
	return out, nil
}

// DeleteByID はIDでエントリを1件削除します。
// 対象が存在しない場合もエラーにしません（削除済みIDの再削除は冪等）。
func (r *watchlistPostgres) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entity.WatchlistEntry{}, id).Error; err != nil {
		return &usecase.StoreError{Op: "delete", Err: translate(err)}
	}
	return nil
}

// translate はドライバー固有のエラーを説明的なエラーに変換します。
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s: %s", pgErr.Code, pgErr.Message)
	}
	return err
}
