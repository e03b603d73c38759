// Package usecase はスクリーナーフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kumagai-school/kumagai-test/internal/feature/screener/domain/entity"
	"github.com/kumagai-school/kumagai-test/internal/shared/pricing"
)

// codeWidth は銘柄コードのゼロ埋め幅です（東証4桁コード）。
const codeWidth = 4

// NormalizeCode は銘柄コードを4桁ゼロ埋めの文字列に正規化します。
// 上流は数値・可変長文字列のどちらでもコードを返すため、結合キーを安定させるための処理です。
// 冪等であり、5桁以上のコードは切り詰めずそのまま返します。
func NormalizeCode(v any) string {
	s := coerceString(v)
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) >= codeWidth {
		return s
	}
	return strings.Repeat("0", codeWidth-len(s)) + s
}

// coerceString は文字列・数値のいずれかの値を文字列化します。
func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		// JSONの数値はfloat64でデコードされる。コードは整数として扱う
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

// coerceFloat は文字列・数値いずれかの値をfloat64に変換します。
// 変換できない値やnullはエラーにせずnilを返します。
func coerceFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return &f
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// NormalizeExtract は上流の生の抽出レコード群を正規化済みのExtractRowに変換します。
//
//   - code は4桁ゼロ埋め文字列に正規化
//   - high / low / multiplier は数値に強制変換
//   - high / low のどちらかが欠損・変換不能な行は破棄（表示も結合もできないため）
//   - multiplier が欠損している場合は high/low から導出（low==0 なら nil）
//
// 入力が空の場合は空のスライスを返し、エラーにはしません。
func NormalizeExtract(raw []map[string]any) []entity.ExtractRow {
	rows := make([]entity.ExtractRow, 0, len(raw))
	for _, r := range raw {
		high := coerceFloat(r["high"])
		low := coerceFloat(r["low"])
		if high == nil || low == nil {
			// 必須フィールドが欠けた行は落とす。バッチ全体は継続する
			continue
		}

		multiplier := coerceFloat(r["multiplier"])
		if multiplier == nil {
			multiplier = pricing.Multiplier(*high, *low)
		}

		rows = append(rows, entity.ExtractRow{
			Code:       NormalizeCode(r["code"]),
			Name:       coerceString(r["name"]),
			High:       *high,
			Low:        *low,
			HighDate:   coerceString(r["high_date"]),
			LowDate:    coerceString(r["low_date"]),
			Multiplier: multiplier,
		})
	}
	return rows
}

// NormalizeBatch は一括現在値フィードの生レコード群をBatchRowに変換します。
// current_price / halfPriceDistancePercent は欠損を許容し、nilのまま保持します。
func NormalizeBatch(raw []map[string]any) []entity.BatchRow {
	rows := make([]entity.BatchRow, 0, len(raw))
	for _, r := range raw {
		code := NormalizeCode(r["code"])
		if code == "" {
			// 結合キーのない行は参照しようがない
			continue
		}
		rows = append(rows, entity.BatchRow{
			Code:            code,
			CurrentPrice:    coerceFloat(r["current_price"]),
			DistancePercent: coerceFloat(r["halfPriceDistancePercent"]),
		})
	}
	return rows
}
