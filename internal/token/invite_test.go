package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInviteCodec_RoundTrip(t *testing.T) {
	codec := NewInviteCodec("secret", 7*24*time.Hour)
	inviteID := uuid.New()

	signed, err := codec.Sign(inviteID)
	if err != nil {
		t.Fatalf("Sign() unexpected error = %v", err)
	}

	got, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() unexpected error = %v", err)
	}
	if got != inviteID {
		t.Errorf("Parse() = %v, want %v", got, inviteID)
	}
}

func TestInviteCodec_Rejections(t *testing.T) {
	codec := NewInviteCodec("secret", 7*24*time.Hour)
	inviteID := uuid.New()
	signed, err := codec.Sign(inviteID)
	if err != nil {
		t.Fatalf("Sign() unexpected error = %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewInviteCodec("another-secret", 7*24*time.Hour)
		if _, err := other.Parse(signed); err != ErrInviteTokenInvalid {
			t.Errorf("Parse() error = %v, want ErrInviteTokenInvalid", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		late := NewInviteCodec("secret", 7*24*time.Hour)
		late.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
		if _, err := late.Parse(signed); err != ErrInviteTokenInvalid {
			t.Errorf("Parse() error = %v, want ErrInviteTokenInvalid", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := codec.Parse("not.a.jwt"); err != ErrInviteTokenInvalid {
			t.Errorf("Parse() error = %v, want ErrInviteTokenInvalid", err)
		}
	})
}
