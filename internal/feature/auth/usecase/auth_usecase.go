// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

const (
	// EnvKeyAdminEmail は管理者メールアドレスの環境変数名です。
	EnvKeyAdminEmail = "ADMIN_EMAIL"
	// EnvKeyAdminPasswordHash は管理者パスワードのbcryptハッシュの環境変数名です。
	EnvKeyAdminPasswordHash = "ADMIN_PASSWORD_HASH"

	// adminUserID は単一管理者アカウントの固定IDです。
	adminUserID = 1
)

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// AdminCredentials は環境変数から読み込んだ単一管理者の認証情報です。
// 収集・生成のトリガーエンドポイントを保護するためだけに使われるため、
// ユーザーテーブルは持ちません。
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// LoadAdminCredentials は環境変数から管理者認証情報を読み込みます。
// 未設定の場合は空の認証情報を返し、ログインは常に失敗します。
func LoadAdminCredentials() AdminCredentials {
	return AdminCredentials{
		Email:        os.Getenv(EnvKeyAdminEmail),
		PasswordHash: os.Getenv(EnvKeyAdminPasswordHash),
	}
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	admin        AdminCredentials
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(admin AdminCredentials, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		admin:        admin,
		jwtGenerator: jwtGenerator,
	}
}

// Login は管理者を認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、メールアドレスが一致しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	// メール不一致時のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	matched := u.admin.Email != "" && email == u.admin.Email && u.admin.PasswordHash != ""
	if matched {
		passwordHash = u.admin.PasswordHash
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if !matched || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(adminUserID, email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
