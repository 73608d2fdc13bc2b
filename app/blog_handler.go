package main

import (
	"errors"
	"net/http"

	"github.com/kecbiofuel/blogapi/internal/blogservice"
	"github.com/kecbiofuel/blogapi/internal/common"
)

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogWithLikeStatus(r.Context(), id, clientIP(r))
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleBlogLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.blogService.ToggleLike(r.Context(), id, clientIP(r))
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{
		"blog_id":   result.BlogID,
		"likes":     result.Likes,
		"has_liked": result.HasLiked,
	}

	err = app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
