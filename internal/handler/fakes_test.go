package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parthparmar-growexxer/blog-backend/internal/config"
	"github.com/parthparmar-growexxer/blog-backend/internal/handler"
	"github.com/parthparmar-growexxer/blog-backend/internal/middleware"
	"github.com/parthparmar-growexxer/blog-backend/internal/model"
	"github.com/parthparmar-growexxer/blog-backend/internal/router"
	"github.com/parthparmar-growexxer/blog-backend/internal/storage"
	"github.com/parthparmar-growexxer/blog-backend/internal/store"
)

// fakeStore is an in-memory implementation of every store interface,
// good enough to exercise the handlers through the real router and
// middleware without a database.
type fakeStore struct {
	mu         sync.Mutex
	nextID     uint64
	users      map[uint64]model.User
	tokens     map[string]tokenRow
	categories map[uint64]model.Category
	posts      map[uint64]model.Post
	comments   map[uint64]model.Comment
}

type tokenRow struct {
	userID    uint64
	expiresAt time.Time
	revoked   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[uint64]model.User{},
		tokens:     map[string]tokenRow{},
		categories: map[uint64]model.Category{},
		posts:      map[uint64]model.Post{},
		comments:   map[uint64]model.Comment{},
	}
}

func (f *fakeStore) id() uint64 { f.nextID++; return f.nextID }

// ----- UserStore -----

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return store.ErrEmailExists
		}
	}
	u.ID = f.id()
	if u.Role == "" {
		u.Role = model.RoleAuthor
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, store.ErrNotFound
	}
	return u, nil
}

// ----- TokenStore -----

func (f *fakeStore) StoreToken(_ context.Context, userID uint64, hash string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[hash] = tokenRow{userID: userID, expiresAt: exp}
	return nil
}

func (f *fakeStore) ValidateToken(_ context.Context, hash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.tokens[hash]
	if !ok || row.revoked || time.Now().UTC().After(row.expiresAt) {
		return 0, store.ErrTokenInvalid
	}
	return row.userID, nil
}

func (f *fakeStore) RevokeByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.tokens[hash]; ok {
		row.revoked = true
		f.tokens[hash] = row
	}
	return nil
}

// ----- CategoryStore -----

func (f *fakeStore) CreateCategory(_ context.Context, cat *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat.ID = f.id()
	cat.CreatedAt = time.Now().UTC()
	cat.UpdatedAt = cat.CreatedAt
	f.categories[cat.ID] = *cat
	return nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Category{}
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetCategory(_ context.Context, id uint64) (model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return model.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, cat *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.categories[cat.ID]
	if !ok {
		return store.ErrNotFound
	}
	ex.Name = cat.Name
	ex.Slug = cat.Slug
	ex.UpdatedAt = time.Now().UTC()
	f.categories[cat.ID] = ex
	*cat = ex
	return nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.categories, id)
	// Mirror the ON DELETE SET NULL foreign key.
	for pid, p := range f.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			f.posts[pid] = p
		}
	}
	return nil
}

// ----- PostStore -----

func (f *fakeStore) CreatePost(_ context.Context, p *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.posts[p.ID] = stripJoins(*p)
	*p = f.joined(f.posts[p.ID])
	return nil
}

func (f *fakeStore) GetPost(_ context.Context, id uint64) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, store.ErrNotFound
	}
	return f.joined(p), nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Post, error) {
	return f.listPosts(func(p model.Post) bool { return p.UserID == userID }), nil
}

func (f *fakeStore) ListPublished(_ context.Context) ([]model.Post, error) {
	return f.listPosts(func(p model.Post) bool { return p.IsPublished }), nil
}

func (f *fakeStore) ListPublishedByCategory(_ context.Context, catID uint64) ([]model.Post, error) {
	return f.listPosts(func(p model.Post) bool {
		return p.IsPublished && p.CategoryID != nil && *p.CategoryID == catID
	}), nil
}

func (f *fakeStore) UpdatePost(_ context.Context, id uint64, upd store.PostUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Slug != nil {
		p.Slug = *upd.Slug
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.ClearCat {
		p.CategoryID = nil
	} else if upd.CategoryID != nil {
		p.CategoryID = upd.CategoryID
	}
	if upd.IsPublished != nil {
		p.IsPublished = *upd.IsPublished
	}
	if upd.Banner != nil {
		p.Banner = upd.Banner
	}
	p.UpdatedAt = time.Now().UTC()
	f.posts[id] = p
	return nil
}

func (f *fakeStore) SetPublished(_ context.Context, id uint64, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsPublished = published
	f.posts[id] = p
	return nil
}

func (f *fakeStore) DeletePost(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	for cid, cm := range f.comments {
		if cm.PostID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

func (f *fakeStore) listPosts(keep func(model.Post) bool) []model.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Post{}
	for _, p := range f.posts {
		if keep(p) {
			out = append(out, f.joined(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// joined mirrors the repository's eager loading of user and category.
func (f *fakeStore) joined(p model.Post) model.Post {
	if u, ok := f.users[p.UserID]; ok {
		p.User = &u
	}
	if p.CategoryID != nil {
		if c, ok := f.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return p
}

func stripJoins(p model.Post) model.Post {
	p.User = nil
	p.Category = nil
	return p
}

// ----- CommentStore -----

func (f *fakeStore) CreateComment(_ context.Context, cm *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cm.ID = f.id()
	cm.CreatedAt = time.Now().UTC()
	cm.UpdatedAt = cm.CreatedAt
	stored := *cm
	stored.User = nil
	f.comments[cm.ID] = stored
	return nil
}

func (f *fakeStore) ListByPost(_ context.Context, postID uint64) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Comment{}
	for _, cm := range f.comments {
		if cm.PostID == postID {
			out = append(out, f.withAuthor(cm))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetComment(_ context.Context, id uint64) (model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cm, ok := f.comments[id]
	if !ok {
		return model.Comment{}, store.ErrNotFound
	}
	return f.withAuthor(cm), nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) withAuthor(cm model.Comment) model.Comment {
	if u, ok := f.users[cm.UserID]; ok {
		cm.User = &model.CommentAuthor{Name: u.Name, Email: u.Email}
	}
	return cm
}

// ----- test server -----

// passthrough replaces the Redis cache and rate limiter in tests.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

type testServer struct {
	e     *echo.Echo
	st    *fakeStore
	posts *handler.PostHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := newFakeStore()
	cfg := config.Config{BcryptCost: 4, TokenTTLHours: 1, UploadDir: t.TempDir(), MaxBannerBytes: 1 << 20}
	banners := storage.NewBannerStore(cfg.UploadDir, cfg.MaxBannerBytes)

	posts := handler.NewPostHandler(st, st, banners)
	e := echo.New()
	router.RegisterAPI(e, router.Deps{
		Auth:         handler.NewAuthHandler(cfg, st, st),
		Posts:        posts,
		Categories:   handler.NewCategoryHandler(st),
		Comments:     handler.NewCommentHandler(st, st),
		BearerAuth:   middleware.BearerAuth(st, st),
		RequireAdmin: middleware.RequireAdmin(),
		Cache:        passthrough,
		RateLimit:    passthrough,
		UploadDir:    cfg.UploadDir,
	})
	return &testServer{e: e, st: st, posts: posts}
}

// do sends a JSON request (body may be nil) with an optional bearer token.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(bs)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.e.ServeHTTP(w, req)
	return w
}

// envelope mirrors the wire format for decoding in assertions.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func mustUnmarshal(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal: %v (data=%s)", err, data)
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body=%s)", err, w.Body.String())
	}
	return env
}

// register creates a user through the API and returns its token and id.
func (ts *testServer) register(t *testing.T, name, email, password string) (string, uint64) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"name": name, "email": email, "password": password, "password_confirmation": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: code %d body %s", email, w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	var data struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode register data: %v", err)
	}
	if data.AccessToken == "" {
		t.Fatal("register returned empty access token")
	}
	return data.AccessToken, data.User.ID
}

// registerAdmin registers a user and promotes it to admin in the store.
func (ts *testServer) registerAdmin(t *testing.T, name, email, password string) (string, uint64) {
	t.Helper()
	token, id := ts.register(t, name, email, password)
	ts.st.mu.Lock()
	u := ts.st.users[id]
	u.Role = model.RoleAdmin
	ts.st.users[id] = u
	ts.st.mu.Unlock()
	return token, id
}
