package main

import "net/http"

// commentPath extracts the title and review ids every comment route carries.
func (app *Application) commentPath(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	if titleID, ok = app.extractIDParam(w, r, "title_id"); !ok {
		return
	}
	reviewID, ok = app.extractIDParam(w, r, "review_id")
	return
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentPath(w, r)
	if !ok {
		return
	}
	var query struct {
		Page int `query:"page" validate:"gte=0,max=10000000"`
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	comments, metadata, err := app.Services.Comments.List(r.Context(), titleID, reviewID, query.Page)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comments": comments, "metadata": metadata}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := app.Services.Comments.Get(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentPath(w, r)
	if !ok {
		return
	}
	var body commentRequest
	if !app.decodeBody(w, r, &body) {
		return
	}
	comment, err := app.Services.Comments.Create(r.Context(), titleID, reviewID, contextGetUser(r).ID, body.Text)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

// updateComment serves both PUT and PATCH: text is the only writable field.
func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	var body commentRequest
	if !app.decodeBody(w, r, &body) {
		return
	}
	comment, err := app.Services.Comments.Update(r.Context(), contextGetUser(r), titleID, reviewID, commentID, body.Text)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.commentPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	if err := app.Services.Comments.Delete(r.Context(), contextGetUser(r), titleID, reviewID, commentID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
