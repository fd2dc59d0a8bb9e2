package titles

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	categories map[string]models.Category
	genres     map[string]models.Genre
	titles     map[int64]*models.Title
	nextID     int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		categories: map[string]models.Category{"films": {ID: 1, Name: "Films", Slug: "films"}},
		genres: map[string]models.Genre{
			"scifi":  {ID: 1, Name: "Sci-Fi", Slug: "scifi"},
			"dramma": {ID: 2, Name: "Drama", Slug: "dramma"},
		},
		titles: map[int64]*models.Title{},
	}
}

func (f *fakeStorage) Get(_ context.Context, id int64) (*models.Title, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *title
	return &copied, nil
}

func (f *fakeStorage) List(_ context.Context, tf filters.TitleFilter, fl filters.Filters) ([]models.Title, int, error) {
	out := []models.Title{}
	for _, title := range f.titles {
		if tf.Year != 0 && title.Year != tf.Year {
			continue
		}
		out = append(out, *title)
	}
	slices.SortFunc(out, func(a, b models.Title) int { return int(a.ID - b.ID) })
	return out, len(out), nil
}

func (f *fakeStorage) apply(title *models.Title, draft models.TitleDraft, replaceGenres bool) error {
	title.Name, title.Year, title.Description = draft.Name, draft.Year, draft.Description
	title.Category = nil
	if draft.CategorySlug != nil {
		category, ok := f.categories[*draft.CategorySlug]
		if !ok {
			return &storage.RelationError{Relation: "category"}
		}
		title.Category = &category
	}
	if !replaceGenres {
		return nil
	}
	genres := []models.Genre{}
	for _, slug := range draft.GenreSlugs {
		genre, ok := f.genres[slug]
		if !ok {
			return &storage.RelationError{Relation: "genre"}
		}
		genres = append(genres, genre)
	}
	title.Genres = genres
	return nil
}

func (f *fakeStorage) Insert(_ context.Context, draft models.TitleDraft) (*models.Title, error) {
	title := &models.Title{Genres: []models.Genre{}}
	if err := f.apply(title, draft, true); err != nil {
		return nil, err
	}
	f.nextID++
	title.ID = f.nextID
	f.titles[title.ID] = title
	return title, nil
}

func (f *fakeStorage) Update(_ context.Context, id int64, draft models.TitleDraft, replaceGenres bool) (*models.Title, error) {
	current, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	title := *current
	if err := f.apply(&title, draft, replaceGenres); err != nil {
		return nil, err
	}
	f.titles[id] = &title
	return &title, nil
}

func (f *fakeStorage) Delete(_ context.Context, id int64) error {
	if _, ok := f.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.titles, id)
	return nil
}

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*TitleService, *fakeStorage) {
	st := newFakeStorage()
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), st, func() time.Time { return fixedNow })
	return svc, st
}

func ptr[T any](v T) *T {
	return &v
}

func duneDraft() models.TitleDraft {
	return models.TitleDraft{
		Name:         "Dune",
		Year:         2021,
		CategorySlug: ptr("films"),
		GenreSlugs:   []string{"scifi"},
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()
		title, err := svc.Create(ctx, duneDraft())
		require.NoError(t, err)
		assert.Nil(t, title.Rating)
		require.NotNil(t, title.Category)
		assert.Equal(t, "films", title.Category.Slug)
		require.Len(t, title.Genres, 1)
	})

	cases := []struct {
		name   string
		mutate func(d *models.TitleDraft)
		err    error
	}{
		{"year eleven years ahead", func(d *models.TitleDraft) { d.Year = int32(fixedNow.Year() + 11) }, ErrInvalidYear},
		{"year below storable range", func(d *models.TitleDraft) { d.Year = -40000 }, ErrInvalidYear},
		{"no genres", func(d *models.TitleDraft) { d.GenreSlugs = nil }, ErrMissingGenre},
		{"unknown category", func(d *models.TitleDraft) { d.CategorySlug = ptr("books") }, ErrUnknownCategory},
		{"unknown genre", func(d *models.TitleDraft) { d.GenreSlugs = []string{"scifi", "horror"} }, ErrUnknownGenre},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st := newTestService()
			draft := duneDraft()
			tc.mutate(&draft)
			_, err := svc.Create(ctx, draft)
			assert.ErrorIs(t, err, tc.err)
			assert.Empty(t, st.titles)
		})
	}

	t.Run("year ten years ahead", func(t *testing.T) {
		svc, _ := newTestService()
		draft := duneDraft()
		draft.Year = int32(fixedNow.Year() + 10)
		_, err := svc.Create(ctx, draft)
		assert.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update without genre keeps genres", func(t *testing.T) {
		svc, _ := newTestService()
		title, err := svc.Create(ctx, duneDraft())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, title.ID, UpdateParams{Name: ptr("Dune: Part One")}, true)
		require.NoError(t, err)
		assert.Equal(t, "Dune: Part One", updated.Name)
		assert.Equal(t, int32(2021), updated.Year)
		require.Len(t, updated.Genres, 1)
		assert.Equal(t, "scifi", updated.Genres[0].Slug)
		require.NotNil(t, updated.Category)
	})

	t.Run("full update with empty genre list", func(t *testing.T) {
		svc, _ := newTestService()
		title, err := svc.Create(ctx, duneDraft())
		require.NoError(t, err)

		_, err = svc.Update(ctx, title.ID, UpdateParams{
			Name:   ptr("Dune"),
			Year:   ptr(int32(2021)),
			Genres: []string{},
		}, false)
		assert.ErrorIs(t, err, ErrMissingGenre)
	})

	t.Run("full update replaces genres and clears category", func(t *testing.T) {
		svc, _ := newTestService()
		title, err := svc.Create(ctx, duneDraft())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, title.ID, UpdateParams{
			Name:        ptr("Dune"),
			Year:        ptr(int32(2021)),
			CategorySet: true,
			Genres:      []string{"dramma"},
		}, false)
		require.NoError(t, err)
		assert.Nil(t, updated.Category)
		require.Len(t, updated.Genres, 1)
		assert.Equal(t, "dramma", updated.Genres[0].Slug)
	})

	t.Run("partial update revalidates year", func(t *testing.T) {
		svc, _ := newTestService()
		title, err := svc.Create(ctx, duneDraft())
		require.NoError(t, err)

		_, err = svc.Update(ctx, title.ID, UpdateParams{Year: ptr(int32(fixedNow.Year() + 11))}, true)
		assert.ErrorIs(t, err, ErrInvalidYear)
	})

	t.Run("missing title", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Update(ctx, 42, UpdateParams{Name: ptr("x")}, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	title, err := svc.Create(ctx, duneDraft())
	require.NoError(t, err)

	got, err := svc.Get(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Name)

	titles, meta, err := svc.List(ctx, filters.TitleFilter{Year: 2021}, 1)
	require.NoError(t, err)
	assert.Len(t, titles, 1)
	assert.Equal(t, 1, meta.TotalRecords)

	require.NoError(t, svc.Delete(ctx, title.ID))
	_, err = svc.Get(ctx, title.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, title.ID), ErrNotFound)
}
