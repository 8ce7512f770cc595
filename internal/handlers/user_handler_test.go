package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"authapi/internal/apperrors"
	"authapi/internal/auth"
	"authapi/internal/middleware"
	"authapi/internal/models"
)

type mockUserRepo struct {
	users map[string]*models.User
	err   error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string, includePassword bool) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u := m.users[id]
	if u == nil {
		return nil, apperrors.NotFound("users")
	}
	out := *u
	if !includePassword {
		out.Password = ""
	}
	return &out, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string, includePassword bool) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.GetByID(ctx, u.ID, includePassword)
		}
	}
	return nil, apperrors.NotFound("users")
}

func (m *mockUserRepo) Update(ctx context.Context, id string, idColumn string, update models.UserUpdate) (int64, error) {
	return 0, nil
}

func serveProfile(h *UserHandler, claims *auth.Claims) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	w := httptest.NewRecorder()
	h.Profile(w, req)
	return w
}

func TestProfileReturnsPublicFields(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		testUserID: {ID: testUserID, Name: "A", Email: "a@b.com", Password: "hash"},
	}}
	h := NewUserHandler(repo)

	w := serveProfile(h, &auth.Claims{ID: testUserID, Email: "a@b.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success=true")
	}
	if resp.Data["id"] != testUserID || resp.Data["name"] != "A" || resp.Data["email"] != "a@b.com" {
		t.Fatalf("unexpected profile %v", resp.Data)
	}
	if _, ok := resp.Data["password"]; ok {
		t.Fatalf("password must not be returned")
	}
}

func TestProfileUserDeleted(t *testing.T) {
	h := NewUserHandler(&mockUserRepo{users: map[string]*models.User{}})

	w := serveProfile(h, &auth.Claims{ID: testUserID, Email: "a@b.com"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestProfileWithoutClaims(t *testing.T) {
	h := NewUserHandler(&mockUserRepo{users: map[string]*models.User{}})

	w := serveProfile(h, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestProfileLookupFailure(t *testing.T) {
	h := NewUserHandler(&mockUserRepo{err: apperrors.Database(errors.New("conn reset"), "select users")})

	w := serveProfile(h, &auth.Claims{ID: testUserID, Email: "a@b.com"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestProfileBehindJWTAuth(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		testUserID: {ID: testUserID, Name: "A", Email: "a@b.com"},
	}}
	signer := auth.NewSigner(testSecret, auth.DefaultTokenTTL)
	protected := middleware.JWTAuth(signer)(http.HandlerFunc(NewUserHandler(repo).Profile))

	token, err := signer.Sign(repo.users[testUserID])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d got %d (%s)", tc.name, tc.want, w.Code, w.Body.String())
		}
	}
}
