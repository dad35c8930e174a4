package utils

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"inkwell/config"
)

func TestMain(m *testing.M) {
	config.SetForTesting(config.AppConfig{
		SessionSecret:   "test-secret",
		SessionTTLHours: 1,
		RedisHost:       "127.0.0.1",
		RedisPort:       6399,
	})
	Logger = zap.NewNop()
	Sugar = Logger.Sugar()
	m.Run()
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(42, "writer", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "writer" {
		t.Errorf("claims = %d/%q, want 42/writer", claims.UserID, claims.Username)
	}
}

func TestExpiredSessionTokenRejected(t *testing.T) {
	token, err := GenerateSessionToken(42, "writer", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseSessionToken(token); err == nil {
		t.Fatal("expired token parsed without error")
	}
}

func TestTamperedSessionTokenRejected(t *testing.T) {
	token, err := GenerateSessionToken(42, "writer", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseSessionToken(tampered); err == nil {
		t.Fatal("tampered token parsed without error")
	}
}

func TestRevokedTokenIsRejectedUntilExpiry(t *testing.T) {
	token, err := GenerateSessionToken(7, "writer", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if IsSessionRevoked(token) {
		t.Fatal("fresh token reported revoked")
	}
	RevokeSessionToken(token, time.Now().Add(time.Hour))
	if !IsSessionRevoked(token) {
		t.Fatal("revoked token reported valid")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "hunter2!") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	dirty := `hello <script>alert(1)</script><b>world</b>`
	clean := Sanitize(dirty)
	if strings.Contains(clean, "<script>") {
		t.Errorf("script survived sanitizing: %q", clean)
	}
	if !strings.Contains(clean, "<b>world</b>") {
		t.Errorf("benign markup was stripped: %q", clean)
	}
}

func TestSanitizePlainStripsAllMarkup(t *testing.T) {
	clean := SanitizePlain(`<b>Title</b> <img src=x onerror=alert(1)>`)
	if strings.Contains(clean, "<") {
		t.Errorf("markup survived plain sanitizing: %q", clean)
	}
}

func TestOAuthStateSingleUse(t *testing.T) {
	SaveState("state-abc", time.Minute)
	if !ConsumeState("state-abc") {
		t.Fatal("saved state not accepted")
	}
	if ConsumeState("state-abc") {
		t.Fatal("state accepted twice")
	}
	if ConsumeState("never-saved") {
		t.Fatal("unknown state accepted")
	}
}
