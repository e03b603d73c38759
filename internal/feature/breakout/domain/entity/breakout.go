// Package entity はbreakoutフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Breakout は5ヶ月もみ合いをブレイクした銘柄の1件分を表します。
type Breakout struct {
	// Code は4桁ゼロ埋めされた銘柄コードです。
	Code string

	// Name は銘柄の表示名です。
	Name string

	// BreakDate はブレイクを観測した日付です。上流の日付が解釈できない場合はnilです。
	BreakDate *time.Time

	// Close はブレイク日の終値です。上流が省略した場合はnilです。
	Close *float64
}
