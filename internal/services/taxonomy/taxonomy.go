// Package taxonomy serves the category and genre registries. Both share
// one shape and one set of rules, so a single service type is
// instantiated once per registry.
package taxonomy

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type TaxonomyStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Taxon, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Taxon, error)
	List(ctx context.Context, search string, slugs []string, f filters.Filters) ([]models.Taxon, int, error)
	Delete(ctx context.Context, slug string) error
}

type TaxonomyService struct {
	log     *slog.Logger
	storage TaxonomyStorage
	kind    string
}

// New returns a service for one registry. kind ("category", "genre") only
// labels log records.
func New(log *slog.Logger, storage TaxonomyStorage, kind string) *TaxonomyService {
	return &TaxonomyService{
		log:     log,
		storage: storage,
		kind:    kind,
	}
}

func (s *TaxonomyService) Create(ctx context.Context, name, slug string) (*models.Taxon, error) {
	const op = "taxonomy.TaxonomyService.Create"
	log := s.log.With("op", op, "kind", s.kind, "name", name, "slug", slug)
	if !models.ValidSlug(slug) {
		log.Info("invalid slug")
		return nil, ErrInvalidSlug
	}
	taxon, err := s.storage.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("slug already registered")
			return nil, ErrDuplicateSlug
		}
		if errors.Is(err, storage.ErrConstraint) {
			return nil, ErrInvalidSlug
		}
		log.Error(err.Error())
		return nil, err
	}
	return taxon, nil
}

func (s *TaxonomyService) List(ctx context.Context, search string, slugs []string, page int) ([]models.Taxon, filters.Metadata, error) {
	const op = "taxonomy.TaxonomyService.List"
	log := s.log.With("op", op, "kind", s.kind, "search", search, "slugs", slugs, "page", page)
	f := filters.New(page)
	taxa, total, err := s.storage.List(ctx, search, slugs, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return taxa, filters.CalculateMetadata(total, f), nil
}

// FilterBySlugs returns the registered entries among slugs, ordered by
// name descending.
func (s *TaxonomyService) FilterBySlugs(ctx context.Context, slugs []string) ([]models.Taxon, error) {
	const op = "taxonomy.TaxonomyService.FilterBySlugs"
	log := s.log.With("op", op, "kind", s.kind, "slugs", slugs)
	if len(slugs) == 0 {
		return []models.Taxon{}, nil
	}
	taxa, err := s.storage.GetBySlugs(ctx, slugs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return taxa, nil
}

// Delete removes the entry. Titles in a deleted category keep existing
// with no category; genre links are dropped.
func (s *TaxonomyService) Delete(ctx context.Context, slug string) error {
	const op = "taxonomy.TaxonomyService.Delete"
	log := s.log.With("op", op, "kind", s.kind, "slug", slug)
	if err := s.storage.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("entry not found")
			return ErrNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
