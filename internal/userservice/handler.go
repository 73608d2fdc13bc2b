package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kecbiofuel/blogapi/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid email or password")

	// ErrWrongProvider is deliberately distinct from ErrAuthenticationFailure:
	// an account registered through Google has no local password, and the API
	// tells the caller so rather than implying a typo.
	ErrWrongProvider = errors.New("this account uses google login")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, tokens *TokenManager, google GoogleProvider) *UserService {
	return &UserService{
		m:      NewUserModel(db),
		mb:     mb,
		tokens: tokens,
		google: google,
	}
}

// RegisterUser creates a local account, issues a bearer token and publishes a
// user.registered event for the welcome-mail consumer.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*AuthResult, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:         name,
		Email:        email,
		AuthProvider: ProviderLocal,
		Password:     Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	data := struct {
		Name  string
		Email string
	}{
		Name:  u.Name,
		Email: u.Email,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, eventData, common.UserRegisteredKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: &u}, nil
}

// LoginUser authenticates local credentials. A missing account and a wrong
// password collapse into the same generic failure; an account held by another
// provider surfaces its own error.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	if user.AuthProvider != ProviderLocal {
		return nil, ErrWrongProvider
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// GetUserByID resolves the identity behind a verified bearer token. ErrNotFound
// means the account was deleted after the token was issued.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.m.getUserByID(ctx, id)
}

// VerifyAccessToken reports which user a bearer token authenticates.
func (s *UserService) VerifyAccessToken(token string) (int64, error) {
	return s.tokens.Verify(token)
}

// GoogleLoginURL returns the provider consent-screen URL. The state parameter
// is a signed short-lived token, so the callback can be handled by any
// instance without server-side session state.
func (s *UserService) GoogleLoginURL() (string, error) {
	state, err := s.tokens.IssueState()
	if err != nil {
		return "", err
	}

	return s.google.AuthCodeURL(state), nil
}

// HandleGoogleCallback resolves the redirected consent into an authenticated
// session: verify state, exchange the code, upsert the profile, issue a token.
func (s *UserService) HandleGoogleCallback(ctx context.Context, state, code string) (*AuthResult, error) {
	if err := s.tokens.VerifyState(state); err != nil {
		return nil, err
	}

	profile, err := s.google.FetchProfile(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.UpsertFromGoogleProfile(ctx, profile.ID, profile.Email, profile.Name)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// UpsertFromGoogleProfile finds a user by google id or email, backfilling the
// google id onto a matching local account, and creates a google-provider user
// when neither key matches.
//
// Merge policy: a prior local registrant signing in with Google under the same
// email silently claims the existing account. This relies on Google asserting
// verified emails.
func (s *UserService) UpsertFromGoogleProfile(ctx context.Context, googleID, email, name string) (*User, error) {
	v := common.NewValidator()
	v.Check(googleID != "", "google_id", "must be provided")
	validateEmail(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByGoogleIDOrEmail(ctx, googleID, email)
	if err == nil {
		if user.GoogleID == nil {
			if err := s.m.linkGoogleIdentity(ctx, user, googleID); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := User{
		Name:         name,
		Email:        email,
		GoogleID:     &googleID,
		AuthProvider: ProviderGoogle,
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}
