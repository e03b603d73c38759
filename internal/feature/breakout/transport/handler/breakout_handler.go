// Package handler はbreakoutフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumagai-school/kumagai-test/internal/api"
	"github.com/kumagai-school/kumagai-test/internal/feature/breakout/domain/entity"
)

// BreakoutUsecase はブレイク銘柄一覧のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BreakoutUsecase interface {
	ListBreakouts(ctx context.Context) ([]entity.Breakout, error)
}

// BreakoutHandler はブレイク銘柄一覧のHTTPリクエストを処理します。
type BreakoutHandler struct {
	uc BreakoutUsecase
}

// NewBreakoutHandler は指定されたusecaseでBreakoutHandlerの新しいインスタンスを生成します。
func NewBreakoutHandler(uc BreakoutUsecase) *BreakoutHandler {
	return &BreakoutHandler{uc: uc}
}

// List は5ヶ月もみ合いブレイク銘柄の一覧を返すAPIです。
//
// エンドポイント例:
// GET /breakouts/5m
func (h *BreakoutHandler) List(c *gin.Context) {
	rows, err := h.uc.ListBreakouts(c.Request.Context())
	if err != nil {
		slog.Warn("list breakouts failed", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "breakout data unavailable"})
		return
	}

	out := make([]api.BreakoutResponse, 0, len(rows))
	for _, r := range rows {
		resp := api.BreakoutResponse{
			Code:  r.Code,
			Name:  r.Name,
			Close: r.Close,
		}
		// 上流のYYYYMMDDを可読形式に整形して返す
		if r.BreakDate != nil {
			resp.BreakDate = r.BreakDate.Format("2006-01-02")
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}
