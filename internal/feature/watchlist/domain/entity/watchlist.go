// Package entity はwatchlistフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// DefaultListType は監視リストの既定の種別です。
const DefaultListType = "my"

// WatchlistEntry はユーザーが保存した監視銘柄1件を表します。
// session_key + list_type でスコープされ、登録時点の導出値をスナップショットとして保持します
// （登録後に再同期はされません）。
type WatchlistEntry struct {
	// ID はストアが採番する一意な識別子です。
	ID uint `gorm:"primaryKey"`

	// SessionKey は所有セッションを識別する不透明な文字列です。
	// 認証時に導出され、ストアはその内容を解釈しません。
	SessionKey string `gorm:"size:64;not null;index:idx_watch_list_scope"`

	// ListType は同一ストアを共有する監視リスト種別の識別子です（例: "my"）。
	ListType string `gorm:"size:32;not null;index:idx_watch_list_scope"`

	// Code / Name は登録時点の銘柄識別情報の非正規化コピーです。
	Code string `gorm:"size:8;not null"`
	Name string `gorm:"size:255"`

	// HighDate は掲載期限の起点となる高値日です。
	HighDate time.Time `gorm:"not null"`

	// HalfRetrace / CurrentPrice / DistancePercent は登録時点のスナップショットです。
	HalfRetrace     *float64
	CurrentPrice    *float64
	DistancePercent *float64

	// CreatedAt は登録日時です。
	CreatedAt time.Time
}

// TableName はこのエンティティのテーブル名を指定します。
func (WatchlistEntry) TableName() string { return "watch_list" }

// ExpiresAt は掲載期限（高値日から7日後）を返します。
func (e *WatchlistEntry) ExpiresAt() time.Time {
	return e.HighDate.AddDate(0, 0, 7)
}

// IsActive は指定日時点で掲載期間内かを返します。期限日当日は掲載対象に含まれます。
// 期限切れの行もストアには残り、読み取り時に取り除かれるだけです。
func (e *WatchlistEntry) IsActive(today time.Time) bool {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	ey, em, ed := e.ExpiresAt().Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, today.Location())

	return !expiry.Before(day)
}
