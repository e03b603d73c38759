package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kumagai-school/kumagai-test/internal/feature/auth/domain/entity"
)

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は権限とセッションキーを含む署名済みJWTトークンを生成します。
	GenerateToken(role, sessionKey string) (string, error)
}

// authUsecase は共有パスワード認証のビジネスロジックを実装します。
type authUsecase struct {
	creds  []entity.Credential
	tokens TokenGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(creds []entity.Credential, tokens TokenGenerator) *authUsecase {
	return &authUsecase{creds: creds, tokens: tokens}
}

// Login は共有パスワードを照合し、成功時にセッションコンテキストとJWTトークンを返します。
// タイミング攻撃を防止するため、一致が見つかってもクレデンシャル全件とのbcrypt比較を続行します。
func (u *authUsecase) Login(ctx context.Context, password string) (*entity.SessionContext, string, error) {
	if len(u.creds) == 0 {
		return nil, "", ErrNoCredentials
	}

	var matched *entity.Credential
	for i := range u.creds {
		if err := bcrypt.CompareHashAndPassword([]byte(u.creds[i].PasswordHash), []byte(password)); err == nil && matched == nil {
			matched = &u.creds[i]
		}
	}
	if matched == nil {
		return nil, "", ErrInvalidPassword
	}

	// セッションキーはランダム成分と認証クレデンシャルを組み合わせてハッシュ化する。
	// 以降のリクエストではこの値だけが監視リストのスコープとして使われる
	session := &entity.SessionContext{
		SessionKey: deriveSessionKey(password),
		Role:       matched.Role,
	}

	token, err := u.tokens.GenerateToken(string(session.Role), session.SessionKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return session, token, nil
}

// deriveSessionKey はセッションごとに一意な不透明キーを導出します。
func deriveSessionKey(credential string) string {
	random := uuid.New()
	sum := sha256.Sum256([]byte(hex.EncodeToString(random[:]) + credential))
	return hex.EncodeToString(sum[:])
}
