package main

import (
	"net/http"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

type userRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=1,max=150"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

func (req *userRequest) params() users.UpdateParams {
	params := users.UpdateParams{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		params.Role = &role
	}
	return params
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Search string `query:"search" validate:"max=150"`
		Page   int    `query:"page" validate:"gte=0,max=10000000"`
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	list, metadata, err := app.Services.Users.List(r.Context(), query.Search, query.Page)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"users": list, "metadata": metadata}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username" validate:"required,max=150"`
		Email     string `json:"email" validate:"required,email,max=254"`
		FirstName string `json:"first_name" validate:"max=150"`
		LastName  string `json:"last_name" validate:"max=150"`
		Bio       string `json:"bio"`
		Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if !app.decodeBody(w, r, &body) {
		return
	}
	user, err := app.Services.Users.Create(r.Context(), &models.User{
		Username:  body.Username,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Bio:       body.Bio,
		Role:      models.Role(body.Role),
	})
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.Services.Users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body userRequest
		if !app.decodeBody(w, r, &body) {
			return
		}
		if !partial && (body.Username == nil || body.Email == nil) {
			errs := make(map[string]string)
			if body.Username == nil {
				errs["username"] = "This field is required"
			}
			if body.Email == nil {
				errs["email"] = "This field is required"
			}
			app.Http.UnprocessableEntity(w, r, errs)
			return
		}
		user, err := app.Services.Users.Update(r.Context(), chi.URLParam(r, "username"), body.params())
		if err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"user": user}, "")
	}
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.Services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getMe(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": contextGetUser(r)}, "")
}

// updateMe edits the caller's profile; a role in the body is ignored.
func (app *Application) updateMe(w http.ResponseWriter, r *http.Request) {
	var body userRequest
	if !app.decodeBody(w, r, &body) {
		return
	}
	user, err := app.Services.Users.UpdateProfile(r.Context(), contextGetUser(r).ID, body.params())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
