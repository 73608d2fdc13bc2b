package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/health", app.healthCheckHandler)

	router.HandlerFunc(http.MethodPost, "/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodGet, "/auth/google", app.googleLoginHandler)
	router.HandlerFunc(http.MethodGet, "/auth/google/callback", app.googleCallbackHandler)
	router.HandlerFunc(http.MethodGet, "/profile", app.requireAuthUser(app.profileHandler))

	router.HandlerFunc(http.MethodPost, "/comments", app.requireAuthUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodGet, "/comments/blog/:blogId", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPut, "/comments/:id", app.requireAuthUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/comments/:id", app.requireAuthUser(app.deleteCommentHandler))
	router.HandlerFunc(http.MethodPut, "/comments/:id/like", app.toggleCommentLikeHandler)

	router.HandlerFunc(http.MethodGet, "/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPost, "/blogs/:id/like", app.toggleBlogLikeHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
