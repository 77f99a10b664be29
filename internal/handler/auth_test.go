package handler_test

import (
	"net/http"
	"testing"
)

func TestRegisterAndMe(t *testing.T) {
	ts := newTestServer(t)

	token, _ := ts.register(t, "Alice", "alice@example.com", "secret1")

	w := ts.do(t, http.MethodGet, "/api/v1/user", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /user: code %d body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message != "User details fetched successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if got := string(env.Data); got == "" || got == "null" {
		t.Fatalf("expected user payload, got %q", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"name":                  "",
		"email":                 "not-an-email",
		"password":              "abc",
		"password_confirmation": "xyz",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Message != "Validation Error" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	for _, field := range []string{"name", "email", "password"} {
		if len(env.Errors[field]) == 0 {
			t.Errorf("expected an error for field %q, got %v", field, env.Errors)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Alice", "alice@example.com", "secret1")

	w := ts.do(t, http.MethodPost, "/api/v1/register", "", map[string]string{
		"name": "Impostor", "email": "alice@example.com",
		"password": "secret2", "password_confirmation": "secret2",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if got := env.Errors["email"]; len(got) != 1 || got[0] != "The email has already been taken." {
		t.Fatalf("email errors = %v", got)
	}
	// The failed attempt must not have created a second account.
	ts.st.mu.Lock()
	n := len(ts.st.users)
	ts.st.mu.Unlock()
	if n != 1 {
		t.Fatalf("user count = %d, want 1", n)
	}
}

func TestLoginIssuesFreshToken(t *testing.T) {
	ts := newTestServer(t)
	first, _ := ts.register(t, "Alice", "alice@example.com", "secret1")

	w := ts.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: code %d body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Message != "User logged in successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	mustUnmarshal(t, env.Data, &data)
	if data.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", data.TokenType)
	}
	if data.AccessToken == "" || data.AccessToken == first {
		t.Errorf("login must mint a token distinct from the registration token")
	}
	// Both tokens stay valid; logging in does not revoke older sessions.
	for _, tok := range []string{first, data.AccessToken} {
		if w := ts.do(t, http.MethodGet, "/api/v1/user", tok, nil); w.Code != http.StatusOK {
			t.Errorf("GET /user with token: code %d", w.Code)
		}
	}
}

// Wrong password and unknown email must be indistinguishable to the caller.
func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Alice", "alice@example.com", "secret1")

	cases := []struct {
		name  string
		email string
	}{
		{"wrong password", "alice@example.com"},
		{"unknown email", "nobody@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
				"email": tc.email, "password": "wrong-pass",
			})
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d, want 401", w.Code)
			}
			env := decodeEnvelope(t, w)
			if env.Success || env.Message != "Invalid credentials" {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@example.com", "secret1")

	w := ts.do(t, http.MethodPost, "/api/v1/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: code %d body %s", w.Code, w.Body.String())
	}
	if env := decodeEnvelope(t, w); env.Message != "User logged out successfully" {
		t.Fatalf("message = %q", env.Message)
	}

	w = ts.do(t, http.MethodGet, "/api/v1/user", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: code %d, want 401", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Unauthenticated" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/v1/user", "/api/v1/user/posts"} {
		w := ts.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: code %d, want 401", path, w.Code)
		}
	}
	w := ts.do(t, http.MethodGet, "/api/v1/user", "deadbeef", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: code %d, want 401", w.Code)
	}
}
