// Package pricing は高値・安値ペアから導出する価格指標の計算を提供します。
package pricing

import "math"

// Round2 は小数第2位までに丸めます。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Multiplier は上昇率（高値/安値）を小数第2位で返します。
// 安値が0以下の場合は計算不能としてnilを返します。
func Multiplier(high, low float64) *float64 {
	if low <= 0 {
		return nil
	}
	m := Round2(high / low)
	return &m
}

// HalfRetraceSimpleAverage は高値と安値の単純平均による半値押し水準を返します。
// 監視リストの表示で使用される指標です。
//
// 注意: HalfRetracePullbackFromRally とは別の指標であり、混同しないこと。
func HalfRetraceSimpleAverage(high, low float64) float64 {
	return Round2((high + low) / 2)
}

// HalfWidth は上げ幅の半値（床関数適用）を返します。
func HalfWidth(high, low float64) float64 {
	return math.Floor((high - low) / 2)
}

// HalfRetracePullbackFromRally は「上げ幅の半値押し」水準を返します。
// 高値から上げ幅の半値（整数に切り捨て）を引き、さらに切り捨てた値です。
// 計算ツールで使用される指標で、HalfRetraceSimpleAverage とは一致しません。
func HalfRetracePullbackFromRally(high, low float64) float64 {
	return math.Floor(high - HalfWidth(high, low))
}
