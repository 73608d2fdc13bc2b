package userservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    time.Duration
		expectedErr bool
	}{
		{name: "day suffix", input: "7d", expected: 7 * 24 * time.Hour},
		{name: "go duration", input: "12h", expected: 12 * time.Hour},
		{name: "empty", input: "", expectedErr: true},
		{name: "garbage", input: "sevendays", expectedErr: true},
		{name: "negative days", input: "-1d", expectedErr: true},
		{name: "zero", input: "0s", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := parseExpiry(tc.input)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	token, err := tm.Issue(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	id, err := tm.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	token, err := tm.sign("42", "", -time.Minute)
	assert.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	other, err := NewTokenManager("another-secret", "7d")
	assert.NoError(t, err)

	token, err := other.Issue(42)
	assert.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	_, err = tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStateTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	state, err := tm.IssueState()
	assert.NoError(t, err)
	assert.NoError(t, tm.VerifyState(state))
}

func TestStateTokenIsNotABearerToken(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "7d")
	assert.NoError(t, err)

	state, err := tm.IssueState()
	assert.NoError(t, err)

	// a state token must never authenticate a request
	_, err = tm.Verify(state)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// and a bearer token must never pass as state
	bearer, err := tm.Issue(42)
	assert.NoError(t, err)
	assert.ErrorIs(t, tm.VerifyState(bearer), ErrInvalidToken)
}
