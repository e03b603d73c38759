// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumagai-school/kumagai-test/internal/api"
	"github.com/kumagai-school/kumagai-test/internal/feature/candles/domain/entity"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, code string) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードを受け取り、日足ローソク足データをJSONで返します。
//
// エンドポイント例:
// GET /candles/7203
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")

	candles, err := h.uc.GetCandles(c.Request.Context(), code)
	if err != nil {
		slog.Warn("get candles failed", "code", code, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "chart data unavailable"})
		return
	}

	// データをフォーマット
	out := make([]api.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, api.CandleResponse{
			Date:   x.Date.Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
