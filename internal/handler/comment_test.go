package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

type commentResp struct {
	ID         uint64 `json:"id"`
	PostID     uint64 `json:"post_id"`
	UserID     uint64 `json:"user_id"`
	Body       string `json:"body"`
	IsApproved bool   `json:"is_approved"`
	User       *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func TestCreateAndListComments(t *testing.T) {
	ts := newTestServer(t)
	alice, aliceID := ts.register(t, "Alice", "alice@example.com", "secret1")
	bob, _ := ts.register(t, "Bob", "bob@example.com", "secret1")
	p := createPost(t, ts, bob, map[string]any{"title": "Post", "content": "x", "is_published": true})

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", p.ID), alice,
		map[string]string{"content": "nice post"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: code %d body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Message != "Comment created successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	var cm commentResp
	mustUnmarshal(t, env.Data, &cm)
	if cm.PostID != p.ID || cm.UserID != aliceID || cm.Body != "nice post" {
		t.Fatalf("comment = %+v", cm)
	}
	if !cm.IsApproved {
		t.Error("new comments must be approved immediately")
	}

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", p.ID), bob, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: code %d", w.Code)
	}
	env = decodeEnvelope(t, w)
	if env.Message != "Comments fetched successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	var list []commentResp
	mustUnmarshal(t, env.Data, &list)
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].User == nil || list[0].User.Name != "Alice" || list[0].User.Email != "alice@example.com" {
		t.Fatalf("author not embedded: %+v", list[0].User)
	}
}

func TestCommentsRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@example.com", "secret1")
	p := createPost(t, ts, token, map[string]any{"title": "Post", "content": "x", "is_published": true})

	path := fmt.Sprintf("/api/v1/posts/%d/comments", p.ID)
	if w := ts.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list: code %d, want 401", w.Code)
	}
	if w := ts.do(t, http.MethodPost, path, "", map[string]string{"content": "x"}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: code %d, want 401", w.Code)
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@example.com", "secret1")

	w := ts.do(t, http.MethodPost, "/api/v1/posts/999/comments", token, map[string]string{"content": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("create: code %d, want 404", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Post not found" {
		t.Fatalf("message = %q", env.Message)
	}
	w = ts.do(t, http.MethodGet, "/api/v1/posts/999/comments", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("list: code %d, want 404", w.Code)
	}
}

func TestCommentBodyRequired(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@example.com", "secret1")
	p := createPost(t, ts, token, map[string]any{"title": "Post", "content": "x"})

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", p.ID), token,
		map[string]string{"content": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if got := env.Errors["content"]; len(got) != 1 || got[0] != "The content field is required." {
		t.Fatalf("content errors = %v", got)
	}
}

func TestDeleteComment(t *testing.T) {
	ts := newTestServer(t)
	alice, _ := ts.register(t, "Alice", "alice@example.com", "secret1")
	bob, _ := ts.register(t, "Bob", "bob@example.com", "secret1")
	admin, _ := ts.registerAdmin(t, "Root", "root@example.com", "secret1")
	p := createPost(t, ts, bob, map[string]any{"title": "Post", "content": "x", "is_published": true})

	comment := func() uint64 {
		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", p.ID), alice,
			map[string]string{"content": "hi"})
		var cm commentResp
		mustUnmarshal(t, decodeEnvelope(t, w).Data, &cm)
		return cm.ID
	}

	// 404 before 403: a missing comment never reveals ownership.
	if w := ts.do(t, http.MethodDelete, "/api/v1/comments/999", bob, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing comment: code %d, want 404", w.Code)
	}

	// Bob owns the post but not the comment; only Alice or an admin may
	// remove it.
	id := comment()
	if w := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", id), bob, nil); w.Code != http.StatusForbidden {
		t.Errorf("non-owner delete: code %d, want 403", w.Code)
	}
	if w := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", id), alice, nil); w.Code != http.StatusOK {
		t.Errorf("owner delete: code %d, want 200", w.Code)
	}

	id = comment()
	w := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", id), admin, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin delete: code %d, want 200", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Comment deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}
}
