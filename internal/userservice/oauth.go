package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the provider's userinfo response this system
// needs. Google only populates Email for verified addresses, which is what
// makes the email-based account merge in UpsertFromGoogleProfile tenable.
type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleProvider is the injected OAuth dependency, an interface so tests can
// swap the real consent-screen round trip for a stub.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*GoogleProfile, error)
}

type GoogleAuthenticator struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogleAuthenticator(clientID, clientSecret, callbackURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleAuthenticator) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and resolves the consenting
// user's profile.
func (g *GoogleAuthenticator) FetchProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("could not exchange authorization code: %w", err)
	}

	res, err := g.cfg.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user info: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("user info request failed with status %d: %s", res.StatusCode, body)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("could not decode user info: %w", err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, errors.New("provider returned an incomplete profile")
	}

	return &profile, nil
}
