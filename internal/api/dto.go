// Package api はハンドラー間で共有されるHTTPリクエスト/レスポンスDTOを定義します。
package api

// ErrorResponse はエラーレスポンスの共通フォーマットです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功メッセージの共通フォーマットです。
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest はログインAPIのリクエストボディです。
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse はログイン成功時のJWTトークンレスポンスです。
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// ScreenerRowResponse はスクリーナー結果1銘柄分のレスポンスです。
// 現在値系のフィールドは一括現在値フィードが利用できない場合nullになります。
type ScreenerRowResponse struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	High            float64  `json:"high"`
	Low             float64  `json:"low"`
	HighDate        string   `json:"high_date"`
	LowDate         string   `json:"low_date"`
	Multiplier      *float64 `json:"multiplier"`
	HalfRetrace     float64  `json:"half_retrace"`
	CurrentPrice    *float64 `json:"current_price"`
	DistancePercent *float64 `json:"distance_percent"`
}

// RetraceResponse は半値押し計算ツールのレスポンスです。
type RetraceResponse struct {
	RiseRate  float64 `json:"rise_rate"`
	Width     float64 `json:"width"`
	HalfWidth float64 `json:"half_width"`
	Pullback  float64 `json:"pullback"`
}

// CandleResponse はローソク足1本分のレスポンスです。
type CandleResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume,omitempty"`
}

// BreakoutResponse はブレイク銘柄1件分のレスポンスです。
type BreakoutResponse struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	BreakDate string   `json:"break_date,omitempty"`
	Close     *float64 `json:"close,omitempty"`
}

// AddWatchlistRequest は監視リスト登録APIのリクエストボディです。
type AddWatchlistRequest struct {
	Code            string   `json:"code" binding:"required"`
	Name            string   `json:"name"`
	HighDate        string   `json:"high_date" binding:"required"`
	ListType        string   `json:"list_type"`
	HalfRetrace     *float64 `json:"half_retrace"`
	CurrentPrice    *float64 `json:"current_price"`
	DistancePercent *float64 `json:"distance_percent"`
}

// WatchlistEntryResponse は監視リスト1件分のレスポンスです。
type WatchlistEntryResponse struct {
	ID              uint     `json:"id"`
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	HighDate        string   `json:"high_date"`
	ListType        string   `json:"list_type"`
	HalfRetrace     *float64 `json:"half_retrace"`
	CurrentPrice    *float64 `json:"current_price"`
	DistancePercent *float64 `json:"distance_percent"`
}
