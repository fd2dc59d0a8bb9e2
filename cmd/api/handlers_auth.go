package main

import (
	"net/http"

	"yamdb/proj/internal/metrics"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,max=150"`
		Email    string `json:"email" validate:"required,email,max=254"`
	}
	if !app.decodeBody(w, r, &body) {
		return
	}
	user, err := app.Services.Auth.Signup(r.Context(), body.Username, body.Email)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	metrics.SignupsTotal.Inc()
	app.Http.Ok(
		w, r,
		envelop{"username": user.Username, "email": user.Email},
		"Confirmation code has been sent to your email",
	)
}

func (app *Application) token(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username         string `json:"username" validate:"required,max=150"`
		ConfirmationCode string `json:"confirmation_code" validate:"required,max=256"`
	}
	if !app.decodeBody(w, r, &body) {
		return
	}
	token, err := app.Services.Auth.Token(r.Context(), body.Username, body.ConfirmationCode)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
