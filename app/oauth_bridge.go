package main

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"

	"github.com/kecbiofuel/blogapi/internal/userservice"
)

//go:embed templates
var bridgeFS embed.FS

var bridgeTemplate = template.Must(template.ParseFS(bridgeFS, "templates/oauth_bridge.html"))

type oauthResult struct {
	Token string                   `json:"token,omitempty"`
	User  *userservice.UserSummary `json:"user,omitempty"`
	Error string                   `json:"error,omitempty"`
}

// deliverOAuthResult hands the callback outcome back to the frontend. The
// default is a small HTML page that posts the result to the opening window
// and closes itself, which keeps the token out of the address bar. The
// redirect mode exists for frontends that open the flow in a full page
// instead of a popup.
func (app *application) deliverOAuthResult(w http.ResponseWriter, r *http.Request, result oauthResult) {
	if app.config.OAuthDelivery == "redirect" {
		app.redirectOAuthResult(w, r, result)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := struct {
		Payload      template.JS
		TargetOrigin string
	}{
		Payload:      template.JS(payload),
		TargetOrigin: app.config.FrontendURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err = bridgeTemplate.Execute(w, data)
	if err != nil {
		app.logError(r, err)
	}
}

func (app *application) redirectOAuthResult(w http.ResponseWriter, r *http.Request, result oauthResult) {
	target, err := url.Parse(app.config.FrontendURL)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	query := target.Query()
	if result.Error != "" {
		query.Set("error", result.Error)
	} else {
		query.Set("token", result.Token)
	}
	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusTemporaryRedirect)
}
