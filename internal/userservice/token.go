package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	// stateTokenTime bounds how long an OAuth round trip may take.
	stateTokenTime = 10 * time.Minute

	purposeOAuthState = "oauth:state"
)

// TokenManager issues and verifies the signed bearer tokens used for stateless
// authentication. There is no refresh or rotation: an expired token means a
// fresh login.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

type tokenClaims struct {
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret, expiry string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret must be provided")
	}

	ttl, err := parseExpiry(expiry)
	if err != nil {
		return nil, err
	}

	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// parseExpiry accepts Go duration strings plus a day suffix, e.g. "7d",
// because deployed configurations use day-denominated expiries and
// time.ParseDuration has no day unit.
func parseExpiry(s string) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("token expiry must be provided")
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid token expiry %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid token expiry %q", s)
	}

	return d, nil
}

// Issue produces a signed compact token whose subject is the user id.
func (tm *TokenManager) Issue(userID int64) (string, error) {
	return tm.sign(strconv.FormatInt(userID, 10), "", tm.ttl)
}

// Verify returns the user id encoded in the token's subject. It fails on a bad
// signature, malformed input, an expired token, or a token issued for another
// purpose (such as an OAuth state token).
func (tm *TokenManager) Verify(token string) (int64, error) {
	claims, err := tm.parse(token)
	if err != nil {
		return 0, err
	}

	if claims.Purpose != "" {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}

	return id, nil
}

// IssueState produces a short-lived token used as the OAuth state parameter.
// Because its validity is carried in the signature, any instance behind a load
// balancer can verify the callback without shared session state.
func (tm *TokenManager) IssueState() (string, error) {
	return tm.sign("state", purposeOAuthState, stateTokenTime)
}

func (tm *TokenManager) VerifyState(token string) error {
	claims, err := tm.parse(token)
	if err != nil {
		return err
	}

	if claims.Purpose != purposeOAuthState {
		return ErrInvalidToken
	}

	return nil
}

func (tm *TokenManager) sign(subject, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

func (tm *TokenManager) parse(token string) (*tokenClaims, error) {
	var claims tokenClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
