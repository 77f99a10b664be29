package handler

import (
    "context"  // provides context with cancellation for DB calls
    "net/http" // HTTP status codes and primitives
    "net/mail" // address parsing for email validation
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/parthparmar-growexxer/blog-backend/internal/config"
    "github.com/parthparmar-growexxer/blog-backend/internal/middleware"
    "github.com/parthparmar-growexxer/blog-backend/internal/model"
    "github.com/parthparmar-growexxer/blog-backend/internal/store"
    "github.com/parthparmar-growexxer/blog-backend/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  store.UserStore
	Tokens store.TokenStore
}

func NewAuthHandler(cfg config.Config, u store.UserStore, t store.TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResp is the data payload returned by register and login.
type tokenResp struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// Register creates a user (role defaults to author) and returns a fresh
// token immediately. Validation failures answer 400 with field-level
// messages; everything else about the request never reveals whether an
// email is in use beyond the explicit validation message.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return utils.ValidationFailed(c, map[string][]string{"body": {"The request body is invalid."}})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs := map[string][]string{}
	if req.Name == "" {
		errs["name"] = append(errs["name"], "The name field is required.")
	} else if len(req.Name) > 255 {
		errs["name"] = append(errs["name"], "The name may not be greater than 255 characters.")
	}
	switch {
	case req.Email == "":
		errs["email"] = append(errs["email"], "The email field is required.")
	case !validEmail(req.Email):
		errs["email"] = append(errs["email"], "The email must be a valid email address.")
	default:
		if _, err := h.Users.GetUserByEmail(ctx, req.Email); err == nil {
			errs["email"] = append(errs["email"], "The email has already been taken.")
		} else if err != store.ErrNotFound {
			return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to register user")
		}
	}
	switch {
	case req.Password == "":
		errs["password"] = append(errs["password"], "The password field is required.")
	case len(req.Password) < 6:
		errs["password"] = append(errs["password"], "The password must be at least 6 characters.")
	case req.Password != req.PasswordConfirmation:
		errs["password"] = append(errs["password"], "The password confirmation does not match.")
	}
	if len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to register user")
	}
	u := model.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.Users.CreateUser(ctx, &u); err != nil {
		// Duplicate insert lost a race with a concurrent registration.
		if err == store.ErrEmailExists {
			return utils.ValidationFailed(c, map[string][]string{"email": {"The email has already been taken."}})
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to register user")
	}

	token, err := h.issueToken(ctx, u.ID)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to register user")
	}
	return utils.Respond(c, http.StatusOK, tokenResp{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        u,
	}, "User registered successfully")
}

// Login verifies credentials and returns a new token. Unknown email and
// wrong password produce the identical response so the endpoint cannot
// be used to probe which addresses have accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return utils.ValidationFailed(c, map[string][]string{"body": {"The request body is invalid."}})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := map[string][]string{}
	if req.Email == "" {
		errs["email"] = append(errs["email"], "The email field is required.")
	}
	if req.Password == "" {
		errs["password"] = append(errs["password"], "The password field is required.")
	}
	if len(errs) > 0 {
		return utils.ValidationFailed(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusUnauthorized, nil, "Invalid credentials")
		}
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to log in")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Invalid credentials")
	}

	token, err := h.issueToken(ctx, u.ID)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to log in")
	}
	return utils.Respond(c, http.StatusOK, tokenResp{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        u,
	}, "User logged in successfully")
}

// Logout revokes the token that authenticated this request. Other live
// sessions of the same user are untouched.
func (h *AuthHandler) Logout(c echo.Context) error {
	hash := middleware.CurrentTokenHash(c)
	if hash == "" {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return utils.Respond(c, http.StatusInternalServerError, nil, "Failed to log out")
	}
	return utils.Respond(c, http.StatusOK, nil, "User logged out successfully")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, http.StatusUnauthorized, nil, "Unauthenticated")
	}
	return utils.Respond(c, http.StatusOK, u, "User details fetched successfully")
}

// issueToken creates an opaque token, persists its hash and hands the
// raw value back for the response.
func (h *AuthHandler) issueToken(ctx context.Context, userID uint64) (string, error) {
	tok, err := utils.NewAccessToken(h.Cfg.TokenTTLHours)
	if err != nil {
		return "", err
	}
	if err := h.Tokens.StoreToken(ctx, userID, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return "", err
	}
	return tok.Raw, nil
}

// validEmail applies a light-weight sanity check; the unique index on
// users.email is the real gate against bad data.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
