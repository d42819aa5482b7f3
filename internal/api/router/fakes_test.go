package router

import (
	"context"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/filter"
	"github.com/letspunt/adpage/internal/objectstore"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type fakeListings struct {
	mu       sync.Mutex
	items    map[int64]domain.Listing
	nextID   int64
	lastPred filter.CompiledPredicate
}

func newFakeListings(seed ...domain.Listing) *fakeListings {
	f := &fakeListings{items: map[int64]domain.Listing{}}
	for _, l := range seed {
		f.nextID++
		if l.ID == 0 {
			l.ID = f.nextID
		}
		f.items[l.ID] = l
	}
	return f
}

func (f *fakeListings) Create(_ context.Context, l domain.Listing) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	l.Slug = domain.Slugify(l.Title)
	f.items[l.ID] = l
	return l, nil
}

func (f *fakeListings) GetByID(_ context.Context, id int64) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return domain.Listing{}, apperr.NewNotFound("post")
	}
	return l, nil
}

func (f *fakeListings) GetBySlug(_ context.Context, slug string) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.items {
		if l.Slug == slug {
			return l, nil
		}
	}
	return domain.Listing{}, apperr.NewNotFound("post")
}

func (f *fakeListings) List(_ context.Context, pred filter.CompiledPredicate) ([]domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPred = pred
	out := make([]domain.Listing, 0, len(f.items))
	for _, l := range f.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListings) Update(_ context.Context, id int64, p domain.ListingPatch) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return domain.Listing{}, apperr.NewNotFound("post")
	}
	if p.Title != nil {
		l.Title = *p.Title
		l.Slug = domain.Slugify(*p.Title)
	}
	if p.Content != nil {
		l.Content = *p.Content
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	f.items[id] = l
	return l, nil
}

func (f *fakeListings) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NewNotFound("post")
	}
	delete(f.items, id)
	return nil
}

type fakeStats struct {
	mu          sync.Mutex
	stats       domain.ListingStats
	locations   []string
	invalidated int
}

func (f *fakeStats) Get(_ context.Context, location string) (domain.ListingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations = append(f.locations, location)
	return f.stats, nil
}

func (f *fakeStats) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

type fakeComments struct {
	mu     sync.Mutex
	items  map[int64]domain.Comment
	nextID int64
	asc    bool
	start  int
	limit  int
}

func newFakeComments(seed ...domain.Comment) *fakeComments {
	f := &fakeComments{items: map[int64]domain.Comment{}}
	for _, c := range seed {
		f.nextID++
		c.ID = f.nextID
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeComments) Create(_ context.Context, c domain.Comment) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.Likes = []int64{}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeComments) Get(_ context.Context, id int64) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return domain.Comment{}, apperr.NewNotFound("comment")
	}
	return c, nil
}

func (f *fakeComments) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range f.items {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) List(_ context.Context, startIndex, limit int, ascending bool) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.start, f.limit, f.asc = startIndex, limit, ascending
	out := []domain.Comment{}
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComments) Stats(context.Context, time.Time) (domain.CommentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CommentStats{TotalComments: int64(len(f.items))}, nil
}

func (f *fakeComments) UpdateContent(_ context.Context, id int64, content string) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return domain.Comment{}, apperr.NewNotFound("comment")
	}
	c.Content = content
	f.items[id] = c
	return c, nil
}

func (f *fakeComments) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NewNotFound("comment")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeComments) ToggleLike(_ context.Context, id, userID int64) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return domain.Comment{}, apperr.NewNotFound("comment")
	}
	c.ToggleLike(userID)
	f.items[id] = c
	return c, nil
}

type fakeUsers struct {
	mu     sync.Mutex
	items  map[int64]domain.User
	nextID int64
}

func newFakeUsers(seed ...domain.User) *fakeUsers {
	f := &fakeUsers{items: map[int64]domain.User{}}
	for _, u := range seed {
		f.nextID++
		u.ID = f.nextID
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.User{}, apperr.NewConflict("user already exists")
		}
	}
	f.nextID++
	u.ID = f.nextID
	if u.ProfilePicture == "" {
		u.ProfilePicture = domain.DefaultProfilePicture
	}
	f.items[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return domain.User{}, apperr.NewNotFound("user")
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, apperr.NewNotFound("user")
}

func (f *fakeUsers) List(context.Context, int, int, bool) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.items {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Stats(context.Context, time.Time) (domain.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.UserStats{TotalUsers: int64(len(f.items))}, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return domain.User{}, apperr.NewNotFound("user")
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	f.items[id] = u
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NewNotFound("user")
	}
	delete(f.items, id)
	return nil
}

type fakeUploader struct {
	folders []string
}

func (f *fakeUploader) Upload(_ context.Context, folder string, img objectstore.Image) (string, error) {
	f.folders = append(f.folders, folder)
	return "https://cdn.example.com/" + folder + "/img" + img.Ext, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return e
}

func newTestTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	return tm
}

func bearer(t *testing.T, tm *auth.TokenManager, id auth.Identity) string {
	t.Helper()
	token, err := tm.Issue(id)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(e *echo.Echo, method, target, body, authz string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
