// Package handler はscreenerフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumagai-school/kumagai-test/internal/api"
	"github.com/kumagai-school/kumagai-test/internal/feature/screener/domain/entity"
	"github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
	"github.com/kumagai-school/kumagai-test/internal/shared/pricing"
)

// ScreenerUsecase はスクリーナー操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ScreenerUsecase interface {
	Screen(ctx context.Context, source string, withCurrent bool) ([]entity.EnrichedRow, error)
	HighLowDetail(ctx context.Context, code string) (*entity.ExtractRow, error)
}

// ScreenerHandler はスクリーナーのHTTPリクエストを処理します。
type ScreenerHandler struct {
	uc ScreenerUsecase
}

// NewScreenerHandler は指定されたusecaseでScreenerHandlerの新しいインスタンスを生成します。
func NewScreenerHandler(uc ScreenerUsecase) *ScreenerHandler {
	return &ScreenerHandler{uc: uc}
}

// Screen は指定ソースのスクリーニング結果を返すAPIです。
//
// エンドポイント例:
// GET /screener/today?with_current=1
//
// 抽出データが空の場合は空配列の200を返し、一次ソースの取得失敗は502を返します。
func (h *ScreenerHandler) Screen(c *gin.Context) {
	source := c.Param("source")
	// 既定で現在値フィードを結合する。"0"指定で抽出データのみ
	withCurrent := c.DefaultQuery("with_current", "1") != "0"

	rows, err := h.uc.Screen(c.Request.Context(), source, withCurrent)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSource) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown source"})
			return
		}
		slog.Warn("screen failed", "source", source, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "upstream data unavailable"})
		return
	}

	out := make([]api.ScreenerRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, api.ScreenerRowResponse{
			Code:            r.Code,
			Name:            r.Name,
			High:            r.High,
			Low:             r.Low,
			HighDate:        r.HighDate,
			LowDate:         r.LowDate,
			Multiplier:      r.Multiplier,
			HalfRetrace:     r.HalfRetrace,
			CurrentPrice:    r.CurrentPrice,
			DistancePercent: r.DistancePercent,
		})
	}
	c.JSON(http.StatusOK, out)
}

// HighLow は1銘柄分の高値・安値情報を返すAPIです。
//
// エンドポイント例:
// GET /highlow/7203
func (h *ScreenerHandler) HighLow(c *gin.Context) {
	code := c.Param("code")

	row, err := h.uc.HighLowDetail(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no data for symbol"})
			return
		}
		slog.Warn("highlow detail failed", "code", code, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "upstream data unavailable"})
		return
	}

	c.JSON(http.StatusOK, api.ScreenerRowResponse{
		Code:        row.Code,
		Name:        row.Name,
		High:        row.High,
		Low:         row.Low,
		HighDate:    row.HighDate,
		LowDate:     row.LowDate,
		Multiplier:  row.Multiplier,
		HalfRetrace: pricing.HalfRetraceSimpleAverage(row.High, row.Low),
	})
}
