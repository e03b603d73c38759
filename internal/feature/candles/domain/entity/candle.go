// Package entity はcandlesフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Candle は日足ローソク足1本分の価格データを表します。
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
