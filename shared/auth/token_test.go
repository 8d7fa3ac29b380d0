package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)

	tok, err := issuer.Issue("usr-123", "a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if id.UserID != "usr-123" || id.Email != "a@x.com" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestIssue_ExpiryIsTTLFromIssuance(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer([]byte("k"), time.Hour)
	issuer.now = func() time.Time { return fixed }

	tok, err := issuer.Issue("usr-1", "a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	if err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt.Time, fixed.Add(time.Hour))
	}
	if !claims.IssuedAt.Time.Equal(fixed) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, fixed)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer([]byte("secret"), -1*time.Second)
	tok, err := issuer.Issue("usr-1", "a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := issuer.Parse(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer([]byte("right-secret"), time.Hour).Issue("usr-2", "b@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenIssuer([]byte("wrong-secret"), time.Hour).Parse(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenIssuer([]byte("k"), time.Hour).Parse("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry an identity")
	}

	ctx := WithIdentity(context.Background(), Identity{UserID: "usr-9", Email: "c@x.com"})
	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID != "usr-9" {
		t.Fatalf("identity not found in context: %+v %v", id, ok)
	}
}
