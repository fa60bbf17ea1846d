package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dclair/task-master/internal/domain"
)

func testUser() *domain.User {
	user := &domain.User{
		Username:     "nuevo",
		Email:        "nuevo@example.com",
		PasswordHash: "pbkdf2-hash",
		IsActive:     false,
	}
	user.ID = uuid.New()
	return user
}

func TestActivationGenerator_RoundTrip(t *testing.T) {
	g := NewActivationGenerator("secret", nil, 24*time.Hour)
	user := testUser()

	tok := g.Make(user)
	if !strings.Contains(tok, "-") {
		t.Fatalf("Make() = %q, want timestamp-hash form", tok)
	}
	if state := g.State(user, tok); state != StateValid {
		t.Errorf("State() = %v, want valid", state)
	}
	if !g.Check(user, tok) {
		t.Error("Check() = false for a fresh token")
	}
}

func TestActivationGenerator_StateTransitions(t *testing.T) {
	user := testUser()

	tests := []struct {
		name   string
		token  func(g *ActivationGenerator) string
		user   func() *domain.User
		now    time.Time
		want   State
	}{
		{
			name:  "fresh token is valid",
			token: func(g *ActivationGenerator) string { return g.Make(user) },
			user:  func() *domain.User { return user },
			now:   time.Now(),
			want:  StateValid,
		},
		{
			name:  "token past the timeout is expired, not invalid",
			token: func(g *ActivationGenerator) string { return g.Make(user) },
			user:  func() *domain.User { return user },
			now:   time.Now().Add(48 * time.Hour),
			want:  StateExpired,
		},
		{
			name:  "tampered token is invalid",
			token: func(g *ActivationGenerator) string { return g.Make(user) + "x" },
			user:  func() *domain.User { return user },
			now:   time.Now(),
			want:  StateInvalid,
		},
		{
			name:  "malformed token is invalid",
			token: func(g *ActivationGenerator) string { return "garbage" },
			user:  func() *domain.User { return user },
			now:   time.Now(),
			want:  StateInvalid,
		},
		{
			name:  "activating the account kills the token",
			token: func(g *ActivationGenerator) string { return g.Make(user) },
			user: func() *domain.User {
				activated := *user
				activated.IsActive = true
				return &activated
			},
			now:  time.Now(),
			want: StateInvalid,
		},
		{
			name:  "changing the password kills the token",
			token: func(g *ActivationGenerator) string { return g.Make(user) },
			user: func() *domain.User {
				changed := *user
				changed.PasswordHash = "another-hash"
				return &changed
			},
			now:  time.Now(),
			want: StateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewActivationGenerator("secret", nil, 24*time.Hour)
			tok := tt.token(g)
			g.now = func() time.Time { return tt.now }

			if got := g.State(tt.user(), tok); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivationGenerator_FallbackSecrets(t *testing.T) {
	user := testUser()

	old := NewActivationGenerator("old-secret", nil, 24*time.Hour)
	tok := old.Make(user)

	rotated := NewActivationGenerator("new-secret", []string{"old-secret"}, 24*time.Hour)
	if state := rotated.State(user, tok); state != StateValid {
		t.Errorf("State() after rotation = %v, want valid via the fallback", state)
	}

	noFallback := NewActivationGenerator("new-secret", nil, 24*time.Hour)
	if state := noFallback.State(user, tok); state != StateInvalid {
		t.Errorf("State() without the fallback = %v, want invalid", state)
	}
}

func TestActivationGenerator_NilAndEmpty(t *testing.T) {
	g := NewActivationGenerator("secret", nil, 24*time.Hour)

	if state := g.State(nil, "anything"); state != StateInvalid {
		t.Errorf("State(nil user) = %v, want invalid", state)
	}
	if state := g.State(testUser(), ""); state != StateInvalid {
		t.Errorf("State(empty token) = %v, want invalid", state)
	}
}
