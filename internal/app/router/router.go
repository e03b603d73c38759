package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "github.com/kumagai-school/kumagai-test/internal/feature/auth/transport/handler"
	breakouthandler "github.com/kumagai-school/kumagai-test/internal/feature/breakout/transport/handler"
	candlehandler "github.com/kumagai-school/kumagai-test/internal/feature/candles/transport/handler"
	screenerhandler "github.com/kumagai-school/kumagai-test/internal/feature/screener/transport/handler"
	watchlisthandler "github.com/kumagai-school/kumagai-test/internal/feature/watchlist/transport/handler"
	"github.com/kumagai-school/kumagai-test/internal/platform/http/handler"
	jwtmw "github.com/kumagai-school/kumagai-test/internal/platform/jwt"
)

// NewRouter はアプリケーションの全ルートを登録したginエンジンを生成します。
// watchlistがnilの場合（ストア未設定）、監視リストのルートは登録しません。
// 読み取り専用の機能はストアなしでも提供を続けます。
func NewRouter(auth *authhandler.AuthHandler, screener *screenerhandler.ScreenerHandler,
	calc *screenerhandler.CalcHandler, candles *candlehandler.CandlesHandler,
	breakouts *breakouthandler.BreakoutHandler, watchlist *watchlisthandler.WatchlistHandler) *gin.Engine {
	r := gin.Default()

	// CORS追加（フロントエンドは別オリジンで配信される）
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	authed := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	authed.Use(jwtmw.AuthRequired())
	{
		authed.GET("/screener/:source", screener.Screen)
		authed.GET("/highlow/:code", screener.HighLow)
		authed.GET("/calc/retrace", calc.Retrace)
		authed.GET("/candles/:code", candles.GetCandlesHandler)
		authed.GET("/breakouts/5m", breakouts.List)

		if watchlist != nil {
			authed.GET("/watchlist", watchlist.List)
			authed.POST("/watchlist", watchlist.Add)
			authed.DELETE("/watchlist/:id", watchlist.Delete)
		}
	}

	return r
}
