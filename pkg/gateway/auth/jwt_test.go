package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("unit-test-signing-key", "glycora-platform", "glycora-api", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return manager
}

func TestIssueAndValidateToken(t *testing.T) {
	manager := testManager(t)
	user := models.User{
		ID:       uuid.New(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
	}

	token, err := manager.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Username != "jdoe" || claims.Email != "jdoe@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Issuer != "glycora-platform" || claims.Audience != "glycora-api" {
		t.Fatalf("unexpected issuer/audience %+v", claims)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	manager := testManager(t)
	token, err := manager.IssueToken(models.User{ID: uuid.New(), Username: "jdoe"})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	parts := strings.Split(token, ".")
	forged := strings.Join([]string{parts[0], parts[1] + "x", parts[2]}, ".")
	if _, err := manager.ValidateToken(context.Background(), forged); err == nil {
		t.Fatal("expected error for tampered payload")
	}

	if _, err := manager.ValidateToken(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
	if _, err := manager.ValidateToken(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := testManager(t)
	token, err := manager.IssueToken(models.User{ID: uuid.New(), Username: "jdoe"})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	manager.nowFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	manager := testManager(t)
	token, err := manager.IssueToken(models.User{ID: uuid.New(), Username: "jdoe"})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	other, err := NewJWTManager("another-signing-key!", "glycora-platform", "glycora-api", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	if _, err := other.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for token signed with a different key")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "iss", "aud", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}
