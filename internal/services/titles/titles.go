package titles

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, tf filters.TitleFilter, f filters.Filters) ([]models.Title, int, error)
	Insert(ctx context.Context, draft models.TitleDraft) (*models.Title, error)
	Update(ctx context.Context, id int64, draft models.TitleDraft, replaceGenres bool) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type TitleService struct {
	log     *slog.Logger
	storage TitlesStorage
	now     func() time.Time
}

// New returns a TitleService. now may be nil, in which case time.Now is used.
func New(log *slog.Logger, storage TitlesStorage, now func() time.Time) *TitleService {
	if now == nil {
		now = time.Now
	}
	return &TitleService{
		log:     log,
		storage: storage,
		now:     now,
	}
}

// UpdateParams holds the fields of an update. Nil fields are left as they
// are; Genres replaces the associations only when non-nil.
type UpdateParams struct {
	Name        *string
	Year        *int32
	Description *string
	// CategorySet distinguishes "leave as is" from "clear the category".
	CategorySet  bool
	CategorySlug *string
	Genres       []string
}

func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "titles.TitleService.Get"
	log := s.log.With("op", op, "id", id)
	title, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) List(ctx context.Context, tf filters.TitleFilter, page int) ([]models.Title, filters.Metadata, error) {
	const op = "titles.TitleService.List"
	log := s.log.With("op", op, "filter", tf, "page", page)
	f := filters.New(page)
	titles, total, err := s.storage.List(ctx, tf, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return titles, filters.CalculateMetadata(total, f), nil
}

func (s *TitleService) Create(ctx context.Context, draft models.TitleDraft) (*models.Title, error) {
	const op = "titles.TitleService.Create"
	log := s.log.With("op", op, "name", draft.Name, "year", draft.Year, "genres", draft.GenreSlugs)
	if err := s.validate(draft, false); err != nil {
		log.Info("invalid title", "reason", err.Error())
		return nil, err
	}
	title, err := s.storage.Insert(ctx, draft)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	log.Info("title created", "id", title.ID)
	return title, nil
}

// Update applies params to the title. A full (non partial) update must
// carry at least one genre.
func (s *TitleService) Update(ctx context.Context, id int64, params UpdateParams, partial bool) (*models.Title, error) {
	const op = "titles.TitleService.Update"
	log := s.log.With("op", op, "id", id, "partial", partial)
	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := models.TitleDraft{
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
	}
	if title.Category != nil {
		draft.CategorySlug = &title.Category.Slug
	}
	if params.Name != nil {
		draft.Name = *params.Name
	}
	if params.Year != nil {
		draft.Year = *params.Year
	}
	if params.Description != nil {
		draft.Description = *params.Description
	}
	if params.CategorySet {
		draft.CategorySlug = params.CategorySlug
	}
	replaceGenres := params.Genres != nil || !partial
	if replaceGenres {
		draft.GenreSlugs = params.Genres
	}
	if err := s.validate(draft, partial); err != nil {
		log.Info("invalid title", "reason", err.Error())
		return nil, err
	}
	updated, err := s.storage.Update(ctx, id, draft, replaceGenres)
	if err != nil {
		return nil, s.mapStorageErr(log, err)
	}
	return updated, nil
}

func (s *TitleService) Delete(ctx context.Context, id int64) error {
	const op = "titles.TitleService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *TitleService) validate(draft models.TitleDraft, partial bool) error {
	if !models.ValidYear(draft.Year, s.now()) {
		return ErrInvalidYear
	}
	if !partial && len(draft.GenreSlugs) == 0 {
		return ErrMissingGenre
	}
	return nil
}

func (s *TitleService) mapStorageErr(log *slog.Logger, err error) error {
	switch {
	case storage.IsRelation(err, "category"):
		log.Info("unknown category")
		return ErrUnknownCategory
	case storage.IsRelation(err, "genre"):
		log.Info("unknown genre")
		return ErrUnknownGenre
	case errors.Is(err, storage.ErrNotFound), storage.IsRelation(err, "title"):
		log.Info("title not found")
		return ErrNotFound
	case errors.Is(err, storage.ErrConstraint):
		// The year check in the store is evaluated against its own clock.
		return ErrInvalidYear
	}
	log.Error(err.Error())
	return err
}
