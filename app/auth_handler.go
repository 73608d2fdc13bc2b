package main

import (
	"errors"
	"net/http"

	"github.com/kecbiofuel/blogapi/internal/common"
	"github.com/kecbiofuel/blogapi/internal/userservice"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.userService.RegisterUser(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.duplicateEmailResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{
		"token": result.Token,
		"user":  result.User.Summary(),
	}

	err = app.writeJSON(w, http.StatusCreated, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.userService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, userservice.ErrWrongProvider):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{
		"token": result.Token,
		"user":  result.User.Summary(),
	}

	err = app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) googleLoginHandler(w http.ResponseWriter, r *http.Request) {
	url, err := app.userService.GoogleLoginURL()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (app *application) googleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errCode := query.Get("error"); errCode != "" {
		app.deliverOAuthResult(w, r, oauthResult{Error: errCode})
		return
	}

	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		app.deliverOAuthResult(w, r, oauthResult{Error: "invalid_request"})
		return
	}

	result, err := app.userService.HandleGoogleCallback(r.Context(), state, code)
	if err != nil {
		if !errors.Is(err, userservice.ErrInvalidToken) {
			app.logError(r, err)
		}
		app.deliverOAuthResult(w, r, oauthResult{Error: "authentication_failed"})
		return
	}

	summary := result.User.Summary()
	app.deliverOAuthResult(w, r, oauthResult{Token: result.Token, User: &summary})
}

func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := app.getUserContext(r)

	user, err := app.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{"user": user.Profile()}

	err = app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
