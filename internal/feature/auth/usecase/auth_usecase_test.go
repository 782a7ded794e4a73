package usecase

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// mockJWTGenerator はJWTGeneratorインターフェースのモック実装です。
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "signed-token", nil
}

// testAdmin は既知パスワード"correct-password"の管理者認証情報を生成します。
func testAdmin(t *testing.T) AdminCredentials {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return AdminCredentials{Email: "admin@example.com", PasswordHash: string(hash)}
}

// TestAuthUsecase_Login_Success は正しい認証情報でトークンが発行されることを検証します。
func TestAuthUsecase_Login_Success(t *testing.T) {
	t.Parallel()

	var gotEmail string
	jwtGen := &mockJWTGenerator{
		GenerateTokenFunc: func(userID uint, email string) (string, error) {
			gotEmail = email
			return "signed-token", nil
		},
	}
	uc := NewAuthUsecase(testAdmin(t), jwtGen)

	token, err := uc.Login(context.Background(), "admin@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "signed-token" {
		t.Errorf("token = %q, want %q", token, "signed-token")
	}
	if gotEmail != "admin@example.com" {
		t.Errorf("token email = %q, want admin email", gotEmail)
	}
}

// TestAuthUsecase_Login_Failures は認証失敗の各ケースで汎用エラーが返ることを検証します。
func TestAuthUsecase_Login_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		admin    func(t *testing.T) AdminCredentials
		email    string
		password string
	}{
		{
			name:     "wrong password",
			admin:    testAdmin,
			email:    "admin@example.com",
			password: "wrong-password",
		},
		{
			name:     "unknown email",
			admin:    testAdmin,
			email:    "someone@example.com",
			password: "correct-password",
		},
		{
			name:     "credentials not configured",
			admin:    func(t *testing.T) AdminCredentials { return AdminCredentials{} },
			email:    "admin@example.com",
			password: "correct-password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := NewAuthUsecase(tc.admin(t), &mockJWTGenerator{})
			_, err := uc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

// TestAuthUsecase_Login_TokenGenerationFailure はトークン生成失敗がエラーとして返ることを検証します。
func TestAuthUsecase_Login_TokenGenerationFailure(t *testing.T) {
	t.Parallel()

	jwtGen := &mockJWTGenerator{
		GenerateTokenFunc: func(userID uint, email string) (string, error) {
			return "", errors.New("no secret")
		},
	}
	uc := NewAuthUsecase(testAdmin(t), jwtGen)

	_, err := uc.Login(context.Background(), "admin@example.com", "correct-password")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("token failure should not be reported as invalid credentials")
	}
}
