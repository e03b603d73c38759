// Package config はYAMLファイルからアプリケーション設定を読み込みます。
// シークレットや接続情報は環境変数、運用ポリシー（除外銘柄・クレデンシャル・TTL）は
// 再ビルドなしで変更できるようこのファイルに置きます。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	authentity "github.com/kumagai-school/kumagai-test/internal/feature/auth/domain/entity"
)

// DefaultPath は設定ファイルの既定パスです。CONFIG_PATHで上書きできます。
const DefaultPath = "./config.yaml"

// Credential は共有パスワード1件分の設定です。
type Credential struct {
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// CacheTTL はソース種別ごとのキャッシュ保持時間（秒）の上書き設定です。
// 0のままなら既定値が使われます。
type CacheTTL struct {
	ExtractSeconds  int `yaml:"extract_seconds"`
	BatchSeconds    int `yaml:"batch_seconds"`
	CandleSeconds   int `yaml:"candle_seconds"`
	BreakoutSeconds int `yaml:"breakout_seconds"`
}

// Config はアプリケーション全体の設定です。
type Config struct {
	// ExcludeCodes はスクリーナー表示から除外する銘柄コードの運用リストです。
	ExcludeCodes []string `yaml:"exclude_codes"`

	// Credentials は共有パスワードと権限の対応リストです。
	Credentials []Credential `yaml:"credentials"`

	// Cache はキャッシュ保持時間の上書きです。
	Cache CacheTTL `yaml:"cache"`
}

// Load は指定パスの設定ファイルを読み込みます。
// パスが空の場合はCONFIG_PATH、それも空なら既定パスを使用します。
// ファイルが存在しない場合は空の設定を返します（除外なし・クレデンシャルなし）。
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// AuthCredentials は設定をauthフィーチャーのエンティティに変換します。
// 不正な権限名はmemberに落とします。
func (c *Config) AuthCredentials() []authentity.Credential {
	out := make([]authentity.Credential, 0, len(c.Credentials))
	for _, cr := range c.Credentials {
		role := authentity.Role(cr.Role)
		if role != authentity.RoleAdmin {
			role = authentity.RoleMember
		}
		out = append(out, authentity.Credential{
			PasswordHash: cr.PasswordHash,
			Role:         role,
		})
	}
	return out
}
