package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsMatchSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("Passwords do not match"), ErrValidation},
		{"conflict", Conflict("User already exists"), ErrConflict},
		{"not found", NotFound("User not found"), ErrNotFound},
		{"auth", Auth("Invalid credentials"), ErrAuth},
		{"store", Store("failed to create transaction", errors.New("connection refused")), ErrStore},
	}
	all := []error{ErrValidation, ErrConflict, ErrNotFound, ErrAuth, ErrStore}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range all {
				got := errors.Is(tt.err, k)
				if got != (k == tt.kind) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, k, got)
				}
			}
		})
	}
}

func TestStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("failed to list transactions", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through errors.Is")
	}
	if got := err.Error(); got != "failed to list transactions: connection refused" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if got := Message(err, "Server error"); got != "failed to list transactions" {
		t.Fatalf("unexpected Message(): %q", got)
	}
}

func TestMessageSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("signup: %w", Conflict("User already exists"))

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("wrapped error lost its kind")
	}
	if got := Message(err, "Server error"); got != "User already exists" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestMessageFallback(t *testing.T) {
	if got := Message(errors.New("boom"), "Server error"); got != "Server error" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
