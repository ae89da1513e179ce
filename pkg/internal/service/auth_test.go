package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/muzicc/pkg/configs"
	"github.com/yeisme/muzicc/pkg/internal/types"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	cfg := &configs.AuthConfig{
		Enabled:       true,
		Secret:        "test-secret",
		ExpireMinutes: 60,
	}

	return newAuthService(openTestDB(t), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.PasswordHash == "correct horse" {
		t.Fatal("password stored in plain text")
	}

	token, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if token.AccessToken == "" || token.TokenType != "bearer" {
		t.Fatalf("unexpected token response %+v", token)
	}

	userID, err := ParseToken(token.AccessToken, svc.cfg)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if userID != user.ID {
		t.Fatalf("token subject = %d, want %d", userID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	req := &types.RegisterRequest{Email: "alice@example.com", Password: "correct horse"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// 密码错误和账号不存在返回同一个错误
	if _, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	good := &configs.AuthConfig{Secret: "good-secret", ExpireMinutes: 60}
	bad := &configs.AuthConfig{Secret: "bad-secret", ExpireMinutes: 60}

	token, err := IssueToken(42, good)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := ParseToken(token, bad); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}

	userID, err := ParseToken(token, good)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if userID != 42 {
		t.Fatalf("subject = %d, want 42", userID)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := &configs.AuthConfig{Secret: "test-secret", ExpireMinutes: -1}

	token, err := IssueToken(7, cfg)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := ParseToken(token, cfg); err == nil {
		t.Fatal("expired token must not parse")
	}
}
