package userservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kecbiofuel/blogapi/internal/common"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "valid", email: "a@x.com", valid: true},
		{name: "subdomain", email: "user@mail.example.co.uk", valid: true},
		{name: "empty", email: "", valid: false},
		{name: "missing domain", email: "user@", valid: false},
		{name: "missing at", email: "user.example.com", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "simple password accepted", password: "secret1", valid: true},
		{name: "six characters", password: "secret", valid: true},
		{name: "too short", password: "five!", valid: false},
		{name: "too long", password: strings.Repeat("a", 73), valid: false},
		{name: "empty", password: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateName(t *testing.T) {
	v := common.NewValidator()
	validateName(v, "")
	assert.False(t, v.Valid())

	v = common.NewValidator()
	validateName(v, strings.Repeat("n", 101))
	assert.False(t, v.Valid())

	v = common.NewValidator()
	validateName(v, "A")
	assert.True(t, v.Valid())
}
