package main

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type titleRecord struct {
	id    int64
	draft models.TitleDraft
}

// catalog keeps titles, reviews and comments in memory. Categories and
// genres are resolved through the taxonomy fakes of the application.
type catalog struct {
	mu         sync.Mutex
	nextID     int64
	categories *fakeTaxa
	genres     *fakeTaxa
	users      *fakeUsers
	titles     map[int64]*titleRecord
	reviews    map[int64]*models.Review
	comments   map[int64]*models.Comment
}

func newCatalog(categories, genres *fakeTaxa, users *fakeUsers) *catalog {
	return &catalog{
		categories: categories,
		genres:     genres,
		users:      users,
		titles:     make(map[int64]*titleRecord),
		reviews:    make(map[int64]*models.Review),
		comments:   make(map[int64]*models.Comment),
	}
}

func (c *catalog) id() int64 {
	c.nextID++
	return c.nextID
}

func (c *catalog) username(id int64) string {
	user, err := c.users.GetByID(context.Background(), id)
	if err != nil {
		return ""
	}
	return user.Username
}

func (c *catalog) checkRelations(draft models.TitleDraft) error {
	ctx := context.Background()
	if draft.CategorySlug != nil {
		found, _ := c.categories.GetBySlugs(ctx, []string{*draft.CategorySlug})
		if len(found) == 0 {
			return &storage.RelationError{Relation: "category"}
		}
	}
	slugs := slices.Clone(draft.GenreSlugs)
	slices.Sort(slugs)
	slugs = slices.Compact(slugs)
	found, _ := c.genres.GetBySlugs(ctx, slugs)
	if len(found) != len(slugs) {
		return &storage.RelationError{Relation: "genre"}
	}
	return nil
}

func (c *catalog) render(rec *titleRecord) *models.Title {
	ctx := context.Background()
	title := &models.Title{
		ID:          rec.id,
		Name:        rec.draft.Name,
		Year:        rec.draft.Year,
		Description: rec.draft.Description,
		Genres:      []models.Genre{},
	}
	if rec.draft.CategorySlug != nil {
		if found, _ := c.categories.GetBySlugs(ctx, []string{*rec.draft.CategorySlug}); len(found) == 1 {
			title.Category = &found[0]
		}
	}
	if len(rec.draft.GenreSlugs) > 0 {
		title.Genres, _ = c.genres.GetBySlugs(ctx, rec.draft.GenreSlugs)
	}
	var sum, n float64
	for _, r := range c.reviews {
		if r.TitleID == rec.id {
			sum += float64(r.Score)
			n++
		}
	}
	if n > 0 {
		mean := sum / n
		title.Rating = models.NewRating(&mean)
	}
	return title
}

type fakeTitles struct{ *catalog }

func (f fakeTitles) Get(ctx context.Context, id int64) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return f.render(rec), nil
}

func (f fakeTitles) List(ctx context.Context, tf filters.TitleFilter, fl filters.Filters) ([]models.Title, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []models.Title{}
	for _, rec := range f.titles {
		if strings.Contains(rec.draft.Name, tf.Name) && (tf.Year == 0 || tf.Year == rec.draft.Year) {
			list = append(list, *f.render(rec))
		}
	}
	slices.SortFunc(list, func(a, b models.Title) int { return int(a.ID - b.ID) })
	return list, len(list), nil
}

func (f fakeTitles) Insert(ctx context.Context, draft models.TitleDraft) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkRelations(draft); err != nil {
		return nil, err
	}
	rec := &titleRecord{id: f.id(), draft: draft}
	f.titles[rec.id] = rec
	return f.render(rec), nil
}

func (f fakeTitles) Update(ctx context.Context, id int64, draft models.TitleDraft, replaceGenres bool) (*models.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if err := f.checkRelations(draft); err != nil {
		return nil, err
	}
	if !replaceGenres {
		draft.GenreSlugs = rec.draft.GenreSlugs
	}
	rec.draft = draft
	return f.render(rec), nil
}

func (f fakeTitles) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.titles, id)
	for rid, r := range f.reviews {
		if r.TitleID == id {
			delete(f.reviews, rid)
		}
	}
	return nil
}

func (f fakeTitles) Exists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.titles[id]
	return ok, nil
}

type fakeReviews struct{ *catalog }

func (f fakeReviews) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.titles[titleID]; !ok {
		return nil, &storage.RelationError{Relation: "title"}
	}
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return nil, &storage.ConflictError{Constraint: "unique_author_title"}
		}
	}
	review := &models.Review{
		ID:             f.id(),
		TitleID:        titleID,
		AuthorID:       authorID,
		AuthorUsername: f.username(authorID),
		Text:           text,
		Score:          score,
		PubDate:        time.Now(),
	}
	f.reviews[review.ID] = review
	cp := *review
	return &cp, nil
}

func (f fakeReviews) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeReviews) List(ctx context.Context, titleID int64, fl filters.Filters) ([]models.Review, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []models.Review{}
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			list = append(list, *r)
		}
	}
	slices.SortFunc(list, func(a, b models.Review) int { return a.PubDate.Compare(b.PubDate) })
	return list, len(list), nil
}

func (f fakeReviews) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[review.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return review, nil
}

func (f fakeReviews) Delete(ctx context.Context, titleID, reviewID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return storage.ErrNotFound
	}
	delete(f.reviews, reviewID)
	return nil
}

type fakeComments struct{ *catalog }

func (f fakeComments) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[reviewID]; !ok {
		return nil, &storage.RelationError{Relation: "review"}
	}
	comment := &models.Comment{
		ID:             f.id(),
		ReviewID:       reviewID,
		AuthorID:       authorID,
		AuthorUsername: f.username(authorID),
		Text:           text,
		PubDate:        time.Now(),
	}
	f.comments[comment.ID] = comment
	cp := *comment
	return &cp, nil
}

func (f fakeComments) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, storage.ErrNotFound
	}
	if r, ok := f.reviews[reviewID]; !ok || r.TitleID != titleID {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeComments) List(ctx context.Context, reviewID int64, fl filters.Filters) ([]models.Comment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []models.Comment{}
	for _, c := range f.comments {
		if c.ReviewID == reviewID {
			list = append(list, *c)
		}
	}
	slices.SortFunc(list, func(a, b models.Comment) int { return b.PubDate.Compare(a.PubDate) })
	return list, len(list), nil
}

func (f fakeComments) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[comment.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	cp := *comment
	f.comments[comment.ID] = &cp
	return comment, nil
}

func (f fakeComments) Delete(ctx context.Context, reviewID, commentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return storage.ErrNotFound
	}
	delete(f.comments, commentID)
	return nil
}
