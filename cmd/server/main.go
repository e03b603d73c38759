package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	appconfig "github.com/kumagai-school/kumagai-test/internal/app/config"
	"github.com/kumagai-school/kumagai-test/internal/app/di"
	"github.com/kumagai-school/kumagai-test/internal/app/router"
	authhandler "github.com/kumagai-school/kumagai-test/internal/feature/auth/transport/handler"
	authusecase "github.com/kumagai-school/kumagai-test/internal/feature/auth/usecase"
	breakouthandler "github.com/kumagai-school/kumagai-test/internal/feature/breakout/transport/handler"
	breakoutusecase "github.com/kumagai-school/kumagai-test/internal/feature/breakout/usecase"
	candlehandler "github.com/kumagai-school/kumagai-test/internal/feature/candles/transport/handler"
	candlesusecase "github.com/kumagai-school/kumagai-test/internal/feature/candles/usecase"
	screenerhandler "github.com/kumagai-school/kumagai-test/internal/feature/screener/transport/handler"
	screenerusecase "github.com/kumagai-school/kumagai-test/internal/feature/screener/usecase"
	watchlistadapters "github.com/kumagai-school/kumagai-test/internal/feature/watchlist/adapters"
	watchlisthandler "github.com/kumagai-school/kumagai-test/internal/feature/watchlist/transport/handler"
	watchlistusecase "github.com/kumagai-school/kumagai-test/internal/feature/watchlist/usecase"
	infradb "github.com/kumagai-school/kumagai-test/internal/platform/db"
	jwtmw "github.com/kumagai-school/kumagai-test/internal/platform/jwt"
	infraredis "github.com/kumagai-school/kumagai-test/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// 運用ポリシー設定（除外銘柄・クレデンシャル・TTL）
	appCfg, err := appconfig.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if len(appCfg.Credentials) == 0 {
		log.Println("[WARN] No credentials configured. All logins will be rejected.")
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 監視リストストア（未設定なら読み取り専用モードで継続）
	db, err := infradb.OpenWatchlistDB()
	if err != nil {
		log.Fatal(err)
	}
	if db == nil {
		log.Println("[WARN] DATABASE_URL is not set. Watchlist persistence is disabled.")
	}

	// 上流Tower APIクライアント（Redisキャッシュでラップ）
	source := di.NewTowerSource(rdb, appCfg)

	// 起動直後の最初のリクエストが境界上の古いキャッシュを読まないようクリア
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := source.InvalidateAll(ctx); err != nil {
		log.Println("[WARN] Failed to invalidate source cache:", err)
	}
	cancel()

	// JWT
	jwtSecret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if jwtSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokenGen := jwtmw.NewGenerator(jwtSecret, 12*time.Hour)

	// Usecase
	authUC := authusecase.NewAuthUsecase(appCfg.AuthCredentials(), tokenGen)
	screenerUC := screenerusecase.NewScreenerUsecase(source, appCfg.ExcludeCodes)
	candlesUC := candlesusecase.NewCandlesUsecase(source)
	breakoutUC := breakoutusecase.NewBreakoutUsecase(source)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	screenerH := screenerhandler.NewScreenerHandler(screenerUC)
	calcH := screenerhandler.NewCalcHandler()
	candlesH := candlehandler.NewCandlesHandler(candlesUC)
	breakoutH := breakouthandler.NewBreakoutHandler(breakoutUC)

	var watchlistH *watchlisthandler.WatchlistHandler
	if db != nil {
		watchlistRepo := watchlistadapters.NewWatchlistPostgres(db)
		watchlistUC := watchlistusecase.NewWatchlistUsecase(watchlistRepo)
		watchlistH = watchlisthandler.NewWatchlistHandler(watchlistUC)
	}

	// ルータ生成
	router := router.NewRouter(authH, screenerH, calcH, candlesH, breakoutH, watchlistH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
