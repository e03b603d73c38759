// Package dto はTower APIのレスポンス構造を定義します。
package dto

// CandleSeriesResponse はローソク足エンドポイントのレスポンスです。
type CandleSeriesResponse struct {
	Data []CandleRow `json:"data"`
}

// CandleRow はローソク足1本分の生データです。
type CandleRow struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// BreakoutRow は5ヶ月もみ合いブレイクエンドポイントの1件分の生データです。
// コードは数値で返ることがあるためany型で受けます。
type BreakoutRow struct {
	Code      any      `json:"code"`
	Name      string   `json:"name"`
	BreakDate string   `json:"break_date"`
	Close     *float64 `json:"close"`
}
