package router

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/api/dto"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersFixture struct {
	e      *echo.Echo
	store  *fakeUsers
	tokens *auth.TokenManager
}

func newUsersFixture(t *testing.T) usersFixture {
	t.Helper()
	hashed, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	f := usersFixture{
		e: newTestEcho(),
		store: newFakeUsers(
			domain.User{Username: "adminuser", Email: "admin@example.com", Password: hashed, IsAdmin: true},
			domain.User{Username: "janedoe1", Email: "jane@example.com", Password: hashed},
		),
		tokens: newTestTokens(t),
	}
	NewUsersRouter(f.e, f.store, auth.RequireToken(f.tokens), auth.RequireAdmin()).Bind()
	return f
}

var (
	adminID = auth.Identity{ID: 1, Email: "admin@example.com", IsAdmin: true}
	janeID  = auth.Identity{ID: 2, Email: "jane@example.com"}
	otherID = auth.Identity{ID: 3, Email: "other@example.com"}
)

func TestUsersRouter_List(t *testing.T) {
	f := newUsersFixture(t)

	rec := do(f.e, http.MethodGet, "/users", "", bearer(t, f.tokens, janeID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(f.e, http.MethodGet, "/users", "", bearer(t, f.tokens, adminID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(2), resp.TotalUsers)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUsersRouter_Get(t *testing.T) {
	f := newUsersFixture(t)

	rec := do(f.e, http.MethodGet, "/users/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"janedoe1"`)

	rec = do(f.e, http.MethodGet, "/users/50", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersRouter_Update(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		who        auth.Identity
		wantStatus int
	}{
		{name: "self rename", target: "/users/2", body: `{"username":"janedoe2"}`, who: janeID, wantStatus: http.StatusOK},
		{name: "admin edits other", target: "/users/2", body: `{"profilePicture":"https://x/y.png"}`, who: adminID, wantStatus: http.StatusOK},
		{name: "admin grants admin", target: "/users/2", body: `{"isAdmin":true}`, who: adminID, wantStatus: http.StatusOK},
		{name: "self grants admin", target: "/users/2", body: `{"isAdmin":true}`, who: janeID, wantStatus: http.StatusForbidden},
		{name: "stranger", target: "/users/2", body: `{"username":"janedoe2"}`, who: otherID, wantStatus: http.StatusForbidden},
		{name: "short username", target: "/users/2", body: `{"username":"jd"}`, who: janeID, wantStatus: http.StatusBadRequest},
		{name: "uppercase username", target: "/users/2", body: `{"username":"JaneDoe22"}`, who: janeID, wantStatus: http.StatusBadRequest},
		{name: "short password", target: "/users/2", body: `{"password":"abc"}`, who: janeID, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUsersFixture(t)

			rec := do(f.e, http.MethodPut, tt.target, tt.body, bearer(t, f.tokens, tt.who))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestUsersRouter_UpdateHashesPassword(t *testing.T) {
	f := newUsersFixture(t)

	rec := do(f.e, http.MethodPut, "/users/2", `{"password":"brandnew"}`, bearer(t, f.tokens, janeID))

	require.Equal(t, http.StatusOK, rec.Code)
	stored := f.store.items[2]
	assert.NotEqual(t, "brandnew", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "brandnew"))
}

func TestUsersRouter_Delete(t *testing.T) {
	f := newUsersFixture(t)

	rec := do(f.e, http.MethodDelete, "/users/2", "", bearer(t, f.tokens, otherID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(f.e, http.MethodDelete, "/users/2", "", bearer(t, f.tokens, janeID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, f.store.items, int64(2))
}

func TestUsersRouter_UpdateEmail(t *testing.T) {
	f := newUsersFixture(t)

	rec := do(f.e, http.MethodPatch, "/users/2/email", `{"email":" "}`, bearer(t, f.tokens, janeID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(f.e, http.MethodPatch, "/users/2/email", `{"email":"new@example.com"}`, bearer(t, f.tokens, janeID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new@example.com", f.store.items[2].Email)
}

func TestUsersRouter_UpdatePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		who        auth.Identity
		wantStatus int
	}{
		{name: "correct current password", body: `{"currentPassword":"secret1","newPassword":"secret2"}`, who: janeID, wantStatus: http.StatusOK},
		{name: "wrong current password", body: `{"currentPassword":"nope","newPassword":"secret2"}`, who: janeID, wantStatus: http.StatusUnauthorized},
		{name: "admin skips current password", body: `{"newPassword":"secret2"}`, who: adminID, wantStatus: http.StatusOK},
		{name: "too short", body: `{"currentPassword":"secret1","newPassword":"s2"}`, who: janeID, wantStatus: http.StatusBadRequest},
		{name: "stranger", body: `{"currentPassword":"secret1","newPassword":"secret2"}`, who: otherID, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUsersFixture(t)

			rec := do(f.e, http.MethodPatch, "/users/2/password", tt.body, bearer(t, f.tokens, tt.who))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.True(t, auth.CheckPassword(f.store.items[2].Password, "secret2"))
			}
		})
	}
}
