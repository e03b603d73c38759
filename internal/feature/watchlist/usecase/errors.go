// Package usecase はwatchlistフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry は必須フィールドが欠けた登録リクエストに対して返されます。
	ErrInvalidEntry = errors.New("invalid watchlist entry")
)

// StoreError は永続化ストアの失敗を表します。
// 意図した書き込みが反映されなかったことを呼び出し側が必ず認識できるようにします。
type StoreError struct {
	Op  string
	Err error
}

// Error はerrorインターフェースを実装します。
func (e *StoreError) Error() string {
	return fmt.Sprintf("watchlist store %s: %v", e.Op, e.Err)
}

// Unwrap はラップされた原因エラーを返します。
func (e *StoreError) Unwrap() error { return e.Err }
