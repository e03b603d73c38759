// Package db はGORMによるデータベース接続の初期化を提供します。
package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kumagai-school/kumagai-test/internal/feature/watchlist/domain/entity"
)

// EnvKeyDatabaseURL は監視リストストアの接続文字列を保持する環境変数名です。
const EnvKeyDatabaseURL = "DATABASE_URL"

// OpenWatchlistDB は監視リストストア（Postgres）への接続を開き、マイグレーションを実行します。
// 接続文字列が未設定の場合は (nil, nil) を返します。永続化機能は無効になりますが、
// 読み取り専用のスクリーナー機能は動作を継続できるため、致命エラーにはしません。
func OpenWatchlistDB() (*gorm.DB, error) {
	dsn := os.Getenv(EnvKeyDatabaseURL)
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// マイグレーション
	if err := db.AutoMigrate(&entity.WatchlistEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
