package main

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(app.config.RateLimitRPS), app.config.RateLimitBurst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Info("request", "method", r.Method, "url", r.URL.String(), "remote_addr", r.RemoteAddr)

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token into a user id on the request
// context. Requests without an Authorization header pass through
// unauthenticated; requireAuthUser guards the routes that need one.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractTokenFromHeader(authorizationHeader)
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		userID, err := app.tokens.Verify(token)
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		r = app.createUserContext(r, userID)

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := app.getUserContext(r)
		if !ok {
			app.authenticationRequiredResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func extractTokenFromHeader(header string) (string, error) {
	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}

	return headerParts[1], nil
}
