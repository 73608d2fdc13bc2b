package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kecbiofuel/blogapi/internal/userservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	tokens, err := userservice.NewTokenManager("test-secret", "1h")
	require.NoError(t, err)

	return &application{
		config: &Config{
			Environment:    "test",
			Version:        "test",
			FrontendURL:    "http://localhost:3000",
			OAuthDelivery:  "bridge",
			RateLimitRPS:   25,
			RateLimitBurst: 50,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokens: tokens,
	}
}

func TestAuthenticate(t *testing.T) {
	app := newTestApplication(t)

	echoUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := app.getUserContext(r)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		fmt.Fprintf(w, "%d", userID)
	})

	token, err := app.tokens.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
			wantBody:   "42",
		},
		{
			name:       "no header passes through unauthenticated",
			authHeader: "",
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
		{
			name:       "malformed header",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rr := httptest.NewRecorder()
			app.authenticate(echoUser).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestAuthenticateRejectsStateToken(t *testing.T) {
	app := newTestApplication(t)

	state, err := app.tokens.IssueState()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+state)

	rr := httptest.NewRecorder()
	app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a state token")
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthUser(t *testing.T) {
	app := newTestApplication(t)

	handler := app.requireAuthUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authenticated request passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = app.createUserContext(req, 7)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.RateLimitRPS = 1
	app.config.RateLimitBurst = 2

	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)

	handler := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}
