package main

import (
	"net/http"

	"yamdb/proj/internal/domain/fields"
	"yamdb/proj/internal/services/taxonomy"

	"github.com/go-chi/chi/v5"
)

// Categories and genres share these handlers; resource names the list key
// and object key in the response.

func (app *Application) listTaxa(svc *taxonomy.TaxonomyService, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query struct {
			Search string          `query:"search" validate:"max=256"`
			Slug   fields.SlugList `query:"slug"`
			Page   int             `query:"page" validate:"gte=0,max=10000000"`
		}
		if !app.decodeQuery(w, r, &query) {
			return
		}
		taxa, metadata, err := svc.List(r.Context(), query.Search, query.Slug, query.Page)
		if err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{resource: taxa, "metadata": metadata}, "")
	}
}

func (app *Application) createTaxon(svc *taxonomy.TaxonomyService, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name" validate:"required,max=256"`
			Slug string `json:"slug" validate:"required,max=50"`
		}
		if !app.decodeBody(w, r, &body) {
			return
		}
		taxon, err := svc.Create(r.Context(), body.Name, body.Slug)
		if err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.Created(w, r, envelop{resource: taxon}, "")
	}
}

func (app *Application) deleteTaxon(svc *taxonomy.TaxonomyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
			app.handleServiceError(w, r, err)
			return
		}
		app.Http.NoContent(w, r)
	}
}
