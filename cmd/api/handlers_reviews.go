package main

import (
	"net/http"

	"yamdb/proj/internal/metrics"
)

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var query struct {
		Page int `query:"page" validate:"gte=0,max=10000000"`
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	reviews, metadata, err := app.Services.Reviews.List(r.Context(), titleID, query.Page)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": reviews, "metadata": metadata}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	review, err := app.Services.Reviews.Get(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var body struct {
		Text  string `json:"text" validate:"required"`
		Score *int32 `json:"score" validate:"required"`
	}
	if !app.decodeBody(w, r, &body) {
		return
	}
	user := contextGetUser(r)
	review, err := app.Services.Reviews.Create(r.Context(), titleID, user.ID, body.Text, *body.Score)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	metrics.ReviewsCreatedTotal.Inc()
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		titleID, ok := app.extractIDParam(w, r, "title_id")
		if !ok {
			return
		}
		reviewID, ok := app.extractIDParam(w, r, "review_id")
		if !ok {
			return
		}
		var body struct {
			Text  *string `json:"text" validate:"omitempty,min=1"`
			Score *int32  `json:"score"`
		}
		if !app.decodeBody(w, r, &body) {
			return
		}
		if !partial && (body.Text == nil || body.Score == nil) {
			errs := make(map[string]string)
			if body.Text == nil {
				errs["text"] = "This field is required"
			}
			if body.Score == nil {
				errs["score"] = "This field is required"
			}
			app.Http.UnprocessableEntity(w, r, errs)
			return
		}
		review, err := app.Services.Reviews.Update(r.Context(), contextGetUser(r), titleID, reviewID, body.Text, body.Score)
		if err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"review": review}, "")
	}
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "review_id")
	if !ok {
		return
	}
	if err := app.Services.Reviews.Delete(r.Context(), contextGetUser(r), titleID, reviewID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
