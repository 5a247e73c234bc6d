package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/model"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // keep tests fast
	}
	return NewAuthService(cfg, nil)
}

func TestHashAndCheckPassword(t *testing.T) {
	s := testAuthService()

	hash, err := s.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}

	if err := s.CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword with right password: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := testAuthService()
	user := &model.User{ID: 42, Email: "t@example.com", Role: model.RoleTeacher}

	// Teachers are not session-tracked, so no Redis is needed here.
	signed, err := s.GenerateToken(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := s.ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleTeacher {
		t.Errorf("Role = %s, want TEACHER", claims.Role)
	}
	if claims.Subject != strconv.FormatInt(user.ID, 10) {
		t.Errorf("Subject = %q, want %q", claims.Subject, "42")
	}

	wantPerms := model.PermissionCodes(model.RoleTeacher)
	if len(claims.Permissions) != len(wantPerms) {
		t.Errorf("Permissions = %v, want %v", claims.Permissions, wantPerms)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := testAuthService()
	user := &model.User{ID: 1, Role: model.RoleAdmin}

	signed, err := s.GenerateToken(context.Background(), user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour}, nil)
	if _, err := other.ValidateToken(signed); err == nil {
		t.Fatal("expected validation failure for token signed with another secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute}
	s := NewAuthService(cfg, nil)

	signed, err := s.GenerateToken(context.Background(), &model.User{ID: 7, Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := s.ValidateToken(signed); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}
