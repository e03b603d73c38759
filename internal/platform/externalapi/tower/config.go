// Package tower は高値・安値スクリーニングAPI（Tower API）のクライアントを提供します。
package tower

import (
	"os"
	"time"
)

// DefaultBaseURL は上流Tower APIの既定URLです。
const DefaultBaseURL = "https://app.kumagai-stock.com"

// Config はTower APIクライアントの設定です。
type Config struct {
	// BaseURL は上流APIのベースURLです（例: "https://app.kumagai-stock.com"）。
	BaseURL string

	// ExtractTimeout は日次抽出・個別銘柄・ローソク足エンドポイントの読み取り上限です。
	ExtractTimeout time.Duration

	// BatchTimeout は一括現在値エンドポイントの読み取り上限です。
	// 全銘柄を走査するため他より大幅に遅く、長めの上限が必要です。
	BatchTimeout time.Duration
}

// LoadConfig は環境変数からTower APIの設定を読み込みます。
func LoadConfig() Config {
	base := os.Getenv("TOWER_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		BaseURL:        base,
		ExtractTimeout: 15 * time.Second,
		BatchTimeout:   40 * time.Second,
	}
}
