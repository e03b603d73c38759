// Package entity はスクリーナーフィーチャーのドメインエンティティを定義します。
package entity

// ExtractRow は高値・安値抽出データの1銘柄分を表します。
// 正規化済みであることが前提です（codeは4桁ゼロ埋め、high/lowは必ず有効値）。
type ExtractRow struct {
	// Code は4桁ゼロ埋めされた銘柄コードです（結合キー）。
	Code string

	// Name は銘柄の表示名です。上流から提供されない場合は空文字列になります。
	Name string

	// High は直近高値、Low は高値日から過去2週間以内の安値です。
	High float64
	Low  float64

	// HighDate / LowDate は高値・安値を観測した日付の文字列です。
	HighDate string
	LowDate  string

	// Multiplier は上昇率（High/Low、小数第2位）です。
	// 上流から提供されない場合は正規化時に導出され、Low==0なら導出不能としてnilになります。
	Multiplier *float64
}

// BatchRow は一括現在値フィードの1銘柄分を表します。
type BatchRow struct {
	// Code はExtractRowと同じ正規化規則による結合キーです。
	Code string

	// CurrentPrice は現在値です。上流が省略した場合はnilです。
	CurrentPrice *float64

	// DistancePercent は現在値から半値押し水準までの距離（%）です。
	DistancePercent *float64
}

// EnrichedRow はExtractRowにBatchRowを左結合した結果の1行です。
// 対応するBatchRowが存在しない場合、現在値系のフィールドはnilのままです。
type EnrichedRow struct {
	ExtractRow

	// HalfRetrace は高値・安値の単純平均による半値押し水準です。
	HalfRetrace float64

	CurrentPrice    *float64
	DistancePercent *float64
}
