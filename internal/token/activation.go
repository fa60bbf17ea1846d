package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dclair/task-master/internal/domain"
)

// State is the outcome of checking an activation token
type State string

const (
	StateValid   State = "valid"
	StateExpired State = "expired"
	StateInvalid State = "invalid"
)

// ActivationGenerator builds and checks single-use account tokens in the
// form "{base36-timestamp}-{hash}". The hash binds the user's ID, password
// hash and activation flag, so activating the account (or changing the
// password, for reset tokens) invalidates outstanding tokens without any
// server-side storage. Fallback secrets keep tokens issued before a key
// rotation verifiable.
type ActivationGenerator struct {
	secret    string
	fallbacks []string
	timeout   time.Duration
	now       func() time.Time
}

// NewActivationGenerator creates a generator with the given primary secret,
// rotation fallbacks and expiry window
func NewActivationGenerator(secret string, fallbacks []string, timeout time.Duration) *ActivationGenerator {
	return &ActivationGenerator{
		secret:    secret,
		fallbacks: fallbacks,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Make issues a token for the user's current state
func (g *ActivationGenerator) Make(user *domain.User) string {
	return g.makeWithTimestamp(user, g.now().Unix(), g.secret)
}

// Check reports whether the token is currently valid for the user
func (g *ActivationGenerator) Check(user *domain.User, token string) bool {
	return g.State(user, token) == StateValid
}

// State returns the detailed token state: valid, expired or invalid.
// Tampered tokens and malformed tokens are indistinguishable by design.
func (g *ActivationGenerator) State(user *domain.User, token string) State {
	if user == nil || token == "" {
		return StateInvalid
	}

	tsB36, _, found := strings.Cut(token, "-")
	if !found {
		return StateInvalid
	}

	ts, err := strconv.ParseInt(tsB36, 36, 64)
	if err != nil || ts < 0 {
		return StateInvalid
	}

	// Verify the signature against the primary secret and every fallback
	matched := false
	for _, secret := range append([]string{g.secret}, g.fallbacks...) {
		candidate := g.makeWithTimestamp(user, ts, secret)
		if hmac.Equal([]byte(candidate), []byte(token)) {
			matched = true
			break
		}
	}
	if !matched {
		return StateInvalid
	}

	if time.Duration(g.now().Unix()-ts)*time.Second > g.timeout {
		return StateExpired
	}
	return StateValid
}

func (g *ActivationGenerator) makeWithTimestamp(user *domain.User, ts int64, secret string) string {
	tsB36 := strconv.FormatInt(ts, 36)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s|%t|%d", user.ID, user.PasswordHash, user.IsActive, ts)
	digest := hex.EncodeToString(mac.Sum(nil))
	return tsB36 + "-" + digest[:32]
}
