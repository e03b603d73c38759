// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrInvalidPassword はどのクレデンシャルにも一致しないパスワードに対して返されます。
	// どのパスワードに近かったかは漏らさない汎用エラーです。
	ErrInvalidPassword = errors.New("invalid password")

	// ErrNoCredentials はクレデンシャルが1件も設定されていない場合に返されます。
	ErrNoCredentials = errors.New("no credentials configured")
)
