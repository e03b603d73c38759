// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

// Role は認証済みセッションに与えられる権限区分です。
type Role string

const (
	// RoleMember は通常の受講者権限です。
	RoleMember Role = "member"
	// RoleAdmin は運用者権限です。
	RoleAdmin Role = "admin"
)

// Credential は共有パスワード1件とそれに対応する権限の組です。
// パスワードは平文では保持せず、bcryptハッシュのみを設定ファイルから読み込みます。
type Credential struct {
	// PasswordHash は共有パスワードのbcryptハッシュです。
	PasswordHash string

	// Role はこのパスワードで認証したセッションに与える権限です。
	Role Role
}

// SessionContext は認証済みセッションの解決結果です。
// JWTクレームとして後続のリクエストに引き回され、グローバル状態には置きません。
type SessionContext struct {
	// SessionKey は監視リストのスコープに使う不透明なセッション識別子です。
	// ランダム成分と認証に使われたクレデンシャルから導出されます。
	SessionKey string

	// Role は解決済みの権限です。
	Role Role
}
