package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/metrics"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/comments"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/taxonomy"
	"yamdb/proj/internal/services/titles"
	"yamdb/proj/internal/services/users"
)

type errorKind struct {
	err    error
	status int
	kind   string
}

// errorKinds maps every error a service may return to its HTTP status and
// the kind reported in the response envelope.
var errorKinds = []errorKind{
	{taxonomy.ErrDuplicateSlug, http.StatusConflict, "duplicate_slug"},
	{taxonomy.ErrInvalidSlug, http.StatusBadRequest, "invalid_slug"},
	{taxonomy.ErrNotFound, http.StatusNotFound, "not_found"},

	{titles.ErrInvalidYear, http.StatusBadRequest, "invalid_year"},
	{titles.ErrMissingGenre, http.StatusBadRequest, "missing_genre"},
	{titles.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{titles.ErrUnknownGenre, http.StatusBadRequest, "unknown_genre"},
	{titles.ErrNotFound, http.StatusNotFound, "not_found"},

	{reviews.ErrUnknownTitle, http.StatusNotFound, "unknown_title"},
	{reviews.ErrDuplicateReview, http.StatusConflict, "duplicate_review"},
	{reviews.ErrScoreOutOfRange, http.StatusBadRequest, "score_out_of_range"},
	{reviews.ErrNotFound, http.StatusNotFound, "not_found"},

	{comments.ErrUnknownReview, http.StatusNotFound, "unknown_review"},
	{comments.ErrNotFound, http.StatusNotFound, "not_found"},

	{users.ErrReservedUsername, http.StatusBadRequest, "reserved_username"},
	{users.ErrInvalidUsername, http.StatusBadRequest, "invalid_username"},
	{users.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{users.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{users.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{users.ErrNotFound, http.StatusNotFound, "not_found"},

	{auth.ErrCredentialsMismatch, http.StatusBadRequest, "credentials_mismatch"},
	{auth.ErrInvalidCode, http.StatusBadRequest, "invalid_confirmation_code"},
	{auth.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},

	{permissions.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{permissions.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func lookupErrorKind(err error) (errorKind, bool) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k, true
		}
	}
	return errorKind{}, false
}

// handleServiceError writes the response for an error returned by a
// service. Unknown errors are logged and reported as 500.
func (app *Application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	k, ok := lookupErrorKind(err)
	if !ok {
		app.Http.ServerError(w, r, err, "")
		return
	}
	metrics.DomainErrorsTotal.WithLabelValues(k.kind).Inc()
	app.Http.Error(w, r, k.status, k.kind, k.err.Error())
}
