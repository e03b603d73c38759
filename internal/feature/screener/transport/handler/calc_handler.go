package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kumagai-school/kumagai-test/internal/api"
	"github.com/kumagai-school/kumagai-test/internal/shared/pricing"
)

// CalcHandler は半値押し計算ツールのHTTPリクエストを処理します。
// 純粋な計算のみでユースケース依存を持ちません。
type CalcHandler struct{}

// NewCalcHandler はCalcHandlerの新しいインスタンスを生成します。
func NewCalcHandler() *CalcHandler {
	return &CalcHandler{}
}

// Retrace は高値・安値ペアから上昇率・上げ幅・上げ幅の半値・半値押しを計算するAPIです。
//
// エンドポイント例:
// GET /calc/retrace?high=120&low=100
//
// 高値 > 安値 > 0 を満たさない入力は400を返します。
func (h *CalcHandler) Retrace(c *gin.Context) {
	high, errH := strconv.ParseFloat(c.Query("high"), 64)
	low, errL := strconv.ParseFloat(c.Query("low"), 64)
	if errH != nil || errL != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "high and low must be numbers"})
		return
	}
	if !(high > low && low > 0) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "high must be greater than low, and low must be positive"})
		return
	}

	c.JSON(http.StatusOK, api.RetraceResponse{
		RiseRate:  pricing.Round2(high / low),
		Width:     pricing.Round2(high - low),
		HalfWidth: pricing.HalfWidth(high, low),
		Pullback:  pricing.HalfRetracePullbackFromRally(high, low),
	})
}
