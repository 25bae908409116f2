package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/tokens"
	"github.com/titaniclabs/titanic-api/services/auth/internal/repo"
	"github.com/titaniclabs/titanic-api/services/auth/internal/service"
	"github.com/titaniclabs/titanic-api/services/auth/internal/transport"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := repo.New(db)
	require.NoError(t, err)

	codec := tokens.NewCodec([]byte("test-secret"), 0, 0)

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{Repo: store, Codec: codec}},
		Codec:       codec,
	})
	return e
}

func doJSON(e *echo.Echo, method, path, auth string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, strings.NewReader(string(raw)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, e *echo.Echo, username, password string) transport.TokenResponse {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/register", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pair transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "bearer", pair.TokenType)
	return pair
}

func TestRegisterLoginMeFlow(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	pair := registerAndLogin(t, e, "boss", "password123")

	rec := doJSON(e, http.MethodGet, "/me", "Bearer "+pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "boss", me["username"])
	assert.Equal(t, "admin", me["role"])

	rec = doJSON(e, http.MethodPost, "/login", "", map[string]string{
		"username": "boss", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/login", "", map[string]string{
		"username": "boss", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect username or password")
}

func TestMe_RequiresToken(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/me", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpoint_RotatesToken(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	pair := registerAndLogin(t, e, "boss", "password123")

	rec := doJSON(e, http.MethodPost, "/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var next transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the rotated-out token is no longer accepted
	rec = doJSON(e, http.MethodPost, "/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	pair := registerAndLogin(t, e, "boss", "password123")

	rec := doJSON(e, http.MethodPost, "/logout", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPost, "/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe_RejectsImmutableFields(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	pair := registerAndLogin(t, e, "boss", "password123")
	auth := "Bearer " + pair.AccessToken

	rec := doJSON(e, http.MethodPut, "/me", auth, map[string]any{"role": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"role"`)

	rec = doJSON(e, http.MethodPut, "/me", auth, map[string]any{"email": "boss@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "boss@example.com")
}
