package auth_test

import (
	"testing"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()
	email := "owner@test.com"

	token, err := auth.GenerateToken(secret, userID, email)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("email: got %v, want %v", claims.Email, email)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", uuid.New(), "a@test.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token)
	if err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateRefreshToken("secret", userID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	got, err := auth.ValidateRefreshToken("secret", token)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if got != userID {
		t.Errorf("user ID: got %v, want %v", got, userID)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	token, err := auth.GenerateRefreshToken("secret", uuid.New())
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token); err == nil {
		t.Fatal("expected refresh token to be rejected as access token")
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateResetToken("secret", userID, "$2a$10$hash")
	if err != nil {
		t.Fatalf("generate reset token: %v", err)
	}

	got, fp, err := auth.ValidateResetToken("secret", token)
	if err != nil {
		t.Fatalf("validate reset token: %v", err)
	}
	if got != userID {
		t.Errorf("user ID: got %v, want %v", got, userID)
	}
	if fp != auth.PasswordFingerprint("$2a$10$hash") {
		t.Errorf("fingerprint: got %q", fp)
	}
	if fp == auth.PasswordFingerprint("$2a$10$other") {
		t.Error("fingerprint should change with the password hash")
	}
}

func TestResetTokenIsNotInterchangeable(t *testing.T) {
	reset, err := auth.GenerateResetToken("secret", uuid.New(), "hash")
	if err != nil {
		t.Fatalf("generate reset token: %v", err)
	}
	refresh, err := auth.GenerateRefreshToken("secret", uuid.New())
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	if _, err := auth.ValidateRefreshToken("secret", reset); err == nil {
		t.Error("reset token accepted as refresh token")
	}
	if _, err := auth.ValidateToken("secret", reset); err == nil {
		t.Error("reset token accepted as access token")
	}
	if _, _, err := auth.ValidateResetToken("secret", refresh); err == nil {
		t.Error("refresh token accepted as reset token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !auth.CheckPassword(hash, "correct-password") {
		t.Error("expected password to match")
	}
	if auth.CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}

	if _, err := auth.HashPassword("short"); err != auth.ErrPasswordTooShort {
		t.Errorf("short password: got %v, want %v", err, auth.ErrPasswordTooShort)
	}
}

func TestSessionNotifier(t *testing.T) {
	n := auth.NewSessionNotifier()
	var got []auth.SessionEvent
	n.Subscribe(func(ev auth.SessionEvent) { got = append(got, ev) })
	n.Subscribe(func(ev auth.SessionEvent) { got = append(got, ev) })

	userID := uuid.New()
	n.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionLogin})

	if len(got) != 2 {
		t.Fatalf("events: got %d, want 2", len(got))
	}
	if got[0].UserID != userID || got[0].Change != auth.SessionLogin {
		t.Errorf("event: got %+v", got[0])
	}

	var nilNotifier *auth.SessionNotifier
	nilNotifier.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionLogout})
}
