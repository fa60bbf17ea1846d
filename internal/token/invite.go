package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInviteTokenInvalid covers every failure mode of invite token parsing.
// Callers must not distinguish tampered from expired tokens.
var ErrInviteTokenInvalid = errors.New("invalid or expired invitation token")

// InviteCodec signs and parses invitation tokens. The payload carries only
// the invite identifier; role and email live server-side on the invite row.
type InviteCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewInviteCodec creates a codec with the given signing secret and max age
func NewInviteCodec(secret string, maxAge time.Duration) *InviteCodec {
	return &InviteCodec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

type inviteClaims struct {
	InviteID string `json:"invite_id"`
	jwt.RegisteredClaims
}

// Sign issues a token for the invite
func (c *InviteCodec) Sign(inviteID uuid.UUID) (string, error) {
	now := c.now()
	claims := inviteClaims{
		InviteID: inviteID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse validates the token and returns the invite identifier it carries
func (c *InviteCodec) Parse(tokenStr string) (uuid.UUID, error) {
	claims := &inviteClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInviteTokenInvalid
	}

	inviteID, err := uuid.Parse(claims.InviteID)
	if err != nil {
		return uuid.Nil, ErrInviteTokenInvalid
	}
	return inviteID, nil
}
