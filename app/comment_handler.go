package main

import (
	"errors"
	"net/http"

	"github.com/kecbiofuel/blogapi/internal/common"
	"github.com/kecbiofuel/blogapi/internal/commentservice"
)

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := app.getUserContext(r)

	var input struct {
		BlogID  string `json:"blogId"`
		Content string `json:"content"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.commentService.CreateComment(r.Context(), input.BlogID, userID, input.Content)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, commentservice.ErrUserForeignKey):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	blogID := app.readStringParam(r, "blogId")

	comments, err := app.commentService.GetCommentsByBlog(r.Context(), blogID)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{
		"count":    len(comments),
		"comments": comments,
	}

	err = app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Content string `json:"content"`
	}

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	comment, err := app.commentService.UpdateComment(r.Context(), id, userID, input.Content)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, commentservice.ErrNotOwner):
			app.forbiddenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.commentService.DeleteComment(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, commentservice.ErrNotOwner):
			app.forbiddenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleCommentLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.commentService.ToggleLike(r.Context(), id, clientIP(r))
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr)
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := envelope{
		"comment_id": result.CommentID,
		"likes":      result.Likes,
		"has_liked":  result.HasLiked,
	}

	err = app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
