// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kumagai-school/kumagai-test/internal/api"
	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/domain/entity"
	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/usecase"
	jwtmw "github.com/kumagai-school/kumagai-test/internal/platform/jwt"
)

// WatchlistUsecase は監視リスト操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type WatchlistUsecase interface {
	Add(ctx context.Context, e *entity.WatchlistEntry) error
	ListActive(ctx context.Context, sessionKey, listType string) ([]entity.WatchlistEntry, error)
	Remove(ctx context.Context, id uint) error
}

// WatchlistHandler は監視リストのHTTPリクエストを処理します。
// すべての操作は認証ミドルウェアが格納したセッションキーでスコープされます。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler は指定されたusecaseでWatchlistHandlerの新しいインスタンスを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// Add は監視リストに銘柄を登録するAPIです。
//
// エンドポイント例:
// POST /watchlist
//
// 登録時点の導出値をスナップショットとして保存します。保存の失敗は必ず呼び出し側に伝えます。
func (h *WatchlistHandler) Add(c *gin.Context) {
	sessionKey := c.GetString(jwtmw.ContextSessionKey)

	var req api.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	highDate, err := time.Parse("2006-01-02", req.HighDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "high_date must be YYYY-MM-DD"})
		return
	}

	e := &entity.WatchlistEntry{
		SessionKey:      sessionKey,
		ListType:        req.ListType,
		Code:            req.Code,
		Name:            req.Name,
		HighDate:        highDate,
		HalfRetrace:     req.HalfRetrace,
		CurrentPrice:    req.CurrentPrice,
		DistancePercent: req.DistancePercent,
	}
	if err := h.uc.Add(c.Request.Context(), e); err != nil {
		if errors.Is(err, usecase.ErrInvalidEntry) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("watchlist add failed", "code", req.Code, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save watchlist entry"})
		return
	}

	c.JSON(http.StatusCreated, toResponse(e))
}

// List は掲載期間内の監視リストを返すAPIです。
//
// エンドポイント例:
// GET /watchlist?list_type=my
func (h *WatchlistHandler) List(c *gin.Context) {
	sessionKey := c.GetString(jwtmw.ContextSessionKey)
	listType := c.DefaultQuery("list_type", entity.DefaultListType)

	entries, err := h.uc.ListActive(c.Request.Context(), sessionKey, listType)
	if err != nil {
		slog.Error("watchlist list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load watchlist"})
		return
	}

	out := make([]api.WatchlistEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Delete は監視リストから1件削除するAPIです。存在しないIDの削除も204を返します。
//
// エンドポイント例:
// DELETE /watchlist/42
func (h *WatchlistHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.uc.Remove(c.Request.Context(), uint(id)); err != nil {
		slog.Error("watchlist delete failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete watchlist entry"})
		return
	}
	c.Status(http.StatusNoContent)
}

// toResponse はエンティティをレスポンスDTOに変換します。
func toResponse(e *entity.WatchlistEntry) api.WatchlistEntryResponse {
	return api.WatchlistEntryResponse{
		ID:              e.ID,
		Code:            e.Code,
		Name:            e.Name,
		HighDate:        e.HighDate.Format("2006-01-02"),
		ListType:        e.ListType,
		HalfRetrace:     e.HalfRetrace,
		CurrentPrice:    e.CurrentPrice,
		DistancePercent: e.DistancePercent,
	}
}
