package main

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"yamdb/proj/internal/api/tasks"
	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/comments"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/taxonomy"
	"yamdb/proj/internal/services/titles"
	"yamdb/proj/internal/services/users"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUsers(seed ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*models.User)}
	for _, u := range seed {
		f.users[u.ID] = u
		f.nextID = max(f.nextID, u.ID)
	}
	return f
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsers) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return nil, &storage.ConflictError{Constraint: storage.UsernameConstraint}
		}
		if u.Email == user.Email {
			return nil, &storage.ConflictError{Constraint: storage.EmailConstraint}
		}
	}
	f.nextID++
	cp := *user
	cp.ID = f.nextID
	f.users[cp.ID] = &cp
	res := cp
	return &res, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) List(ctx context.Context, search string, fl filters.Filters) ([]models.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []models.User{}
	for _, u := range f.users {
		if strings.Contains(u.Username, search) {
			list = append(list, *u)
		}
	}
	slices.SortFunc(list, func(a, b models.User) int { return strings.Compare(a.Username, b.Username) })
	return list, len(list), nil
}

func (f *fakeUsers) Update(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUsers) Activate(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.IsActive = true
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Username == username {
			delete(f.users, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeTaxa struct {
	mu   sync.Mutex
	taxa []models.Taxon
}

func (f *fakeTaxa) Insert(ctx context.Context, name, slug string) (*models.Taxon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.taxa {
		if t.Slug == slug {
			return nil, storage.ErrConflict
		}
	}
	taxon := models.Taxon{Name: name, Slug: slug}
	f.taxa = append(f.taxa, taxon)
	return &taxon, nil
}

func (f *fakeTaxa) GetBySlugs(ctx context.Context, slugs []string) ([]models.Taxon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []models.Taxon{}
	for _, t := range f.taxa {
		if slices.Contains(slugs, t.Slug) {
			res = append(res, t)
		}
	}
	return res, nil
}

func (f *fakeTaxa) List(ctx context.Context, search string, slugs []string, fl filters.Filters) ([]models.Taxon, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := slices.Clone(f.taxa)
	slices.SortFunc(res, func(a, b models.Taxon) int { return strings.Compare(b.Name, a.Name) })
	return res, len(res), nil
}

func (f *fakeTaxa) Delete(ctx context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.taxa {
		if t.Slug == slug {
			f.taxa = slices.Delete(f.taxa, i, i+1)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeTokens struct{}

func (fakeTokens) Insert(ctx context.Context, hash []byte, userID int64, expiry time.Time, scope string) error {
	return nil
}

func (fakeTokens) Exists(ctx context.Context, hash []byte, userID int64, scope string, now time.Time) (bool, error) {
	return false, nil
}

func (fakeTokens) DeleteAllForUser(ctx context.Context, scope string, userID int64) error {
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

type discardMailer struct{}

func (discardMailer) Send(recipient string, tmplName string, tmplData any) error { return nil }

var (
	testAdmin = &models.User{ID: 1, Username: "admin", Email: "admin@yamdb.local", Role: models.RoleAdmin, IsActive: true}
	testUser  = &models.User{ID: 2, Username: "reader", Email: "reader@yamdb.local", Role: models.RoleUser, IsActive: true}
)

// newTestApplication wires an Application whose services all run on
// in-memory storage.
func newTestApplication(t *testing.T) *Application {
	t.Helper()
	log := logger.New(io.Discard, false)
	cfg := &config.Config{AppSecret: "test-secret"}
	cfg.Auth.AccessTokenTTL = time.Hour
	cfg.Auth.ConfirmationCodeTTL = time.Hour
	bgTasks := tasks.New(log, 1, 10)
	bgTasks.Run()
	t.Cleanup(func() {
		require.NoError(t, bgTasks.Shutdown(context.Background()))
	})
	userStore := newFakeUsers(
		&models.User{ID: testAdmin.ID, Username: testAdmin.Username, Email: testAdmin.Email, Role: testAdmin.Role, IsActive: true},
		&models.User{ID: testUser.ID, Username: testUser.Username, Email: testUser.Email, Role: testUser.Role, IsActive: true},
	)
	usersService := users.New(log, userStore)
	categories, genres := &fakeTaxa{}, &fakeTaxa{}
	cat := newCatalog(categories, genres, userStore)
	svc := &services.Services{
		Categories: taxonomy.New(log, categories, "category"),
		Genres:     taxonomy.New(log, genres, "genre"),
		Titles:     titles.New(log, fakeTitles{cat}, nil),
		Reviews:    reviews.New(log, fakeReviews{cat}, fakeTitles{cat}),
		Comments:   comments.New(log, fakeComments{cat}, fakeReviews{cat}),
		Users:      usersService,
		Auth: auth.New(log, usersService, fakeTokens{}, discardMailer{}, bgTasks, auth.Options{
			Secret:         cfg.AppSecret,
			CodeTTL:        cfg.Auth.ConfirmationCodeTTL,
			AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		}),
	}
	return NewApplication(cfg, log, svc, bgTasks, fakePinger{})
}

func accessToken(t *testing.T, app *Application, user *models.User) string {
	t.Helper()
	token, err := app.Services.Auth.NewAccessToken(user.ID)
	require.NoError(t, err)
	return token
}
