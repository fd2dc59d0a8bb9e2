package main

import (
	"net/http"

	"yamdb/proj/internal/domain/fields"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/titles"
)

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Name     string          `query:"name" validate:"max=256"`
		Category fields.SlugList `query:"category"`
		Genre    fields.SlugList `query:"genre"`
		Year     int32           `query:"year" validate:"gte=-32768,lte=32767"`
		Page     int             `query:"page" validate:"gte=0,max=10000000"`
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	tf := filters.TitleFilter{
		Name:       query.Name,
		Categories: query.Category,
		Genres:     query.Genre,
		Year:       query.Year,
	}
	list, metadata, err := app.Services.Titles.List(r.Context(), tf, query.Page)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"titles": list, "metadata": metadata}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	title, err := app.Services.Titles.Get(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        *int32   `json:"year" validate:"required,gte=-32768,lte=32767"`
		Description string   `json:"description"`
		Category    *string  `json:"category"`
		Genre       []string `json:"genre"`
	}
	if !app.decodeBody(w, r, &body) {
		return
	}
	title, err := app.Services.Titles.Create(r.Context(), models.TitleDraft{
		Name:         body.Name,
		Year:         *body.Year,
		Description:  body.Description,
		CategorySlug: body.Category,
		GenreSlugs:   body.Genre,
	})
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

// updateTitle serves PUT (partial=false) and PATCH (partial=true). A full
// update must name the title, its year and its genres.
func (app *Application) updateTitle(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := app.extractIDParam(w, r, "title_id")
		if !ok {
			return
		}
		var body struct {
			Name        *string               `json:"name" validate:"omitempty,max=256"`
			Year        *int32                `json:"year" validate:"omitempty,gte=-32768,lte=32767"`
			Description *string               `json:"description"`
			Category    fields.NullableString `json:"category"`
			Genre       []string              `json:"genre"`
		}
		if !app.decodeBody(w, r, &body) {
			return
		}
		if !partial {
			errs := make(map[string]string)
			if body.Name == nil {
				errs["name"] = "This field is required"
			}
			if body.Year == nil {
				errs["year"] = "This field is required"
			}
			if len(errs) > 0 {
				app.Http.UnprocessableEntity(w, r, errs)
				return
			}
		}
		title, err := app.Services.Titles.Update(r.Context(), id, titles.UpdateParams{
			Name:         body.Name,
			Year:         body.Year,
			Description:  body.Description,
			CategorySet:  body.Category.Set,
			CategorySlug: body.Category.Value,
			Genres:       body.Genre,
		}, partial)
		if err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"title": title}, "")
	}
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	if err := app.Services.Titles.Delete(r.Context(), id); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
