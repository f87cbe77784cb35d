package controller

import (
	"context"
	"net/http"
	"quiz_iq_backend/internal/config"
	"quiz_iq_backend/internal/middleware"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdmins struct {
	service.AdminStore
	byID map[string]*model.Admin
}

func (m *memAdmins) Count(context.Context) (int64, error) { return int64(len(m.byID)), nil }

func (m *memAdmins) Create(_ context.Context, a *model.Admin) error {
	a.ID = "admin-" + a.Username
	m.byID[a.ID] = a
	return nil
}

func (m *memAdmins) FindByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, util.ErrAdminNotFound
}

func (m *memAdmins) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range m.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, util.ErrAdminNotFound
}

type memSessions struct {
	service.SessionStore
	m map[string]string
}

func (m *memSessions) Save(_ context.Context, sid, pid string, _ time.Duration) error {
	m.m[sid] = pid
	return nil
}

func (m *memSessions) Lookup(_ context.Context, sid string) (string, error) { return m.m[sid], nil }

func (m *memSessions) Delete(_ context.Context, sid string) error {
	delete(m.m, sid)
	return nil
}

func newAuthRouter() (*gin.Engine, *memSessions) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Session: config.SessionConfig{Secret: "test-secret", AdminExpire: 24 * time.Hour}}
	sessions := &memSessions{m: map[string]string{}}
	authService := service.NewAuthService(nil, &memAdmins{byID: map[string]*model.Admin{}}, nil, sessions, nil, cfg)
	ctrl := NewAuthController(authService, nil, true)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(authService))
	r.POST("/api/admin/setup", ctrl.SetupAdmin)
	r.POST("/api/admin/login", ctrl.AdminLogin)
	r.POST("/api/auth/logout", ctrl.Logout)
	r.GET("/api/admin/me", middleware.RequireAdmin(), ctrl.AdminMe)
	return r, sessions
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAdminSetupLoginLogout(t *testing.T) {
	r, sessions := newAuthRouter()
	creds := `{"username":"root","password":"secret1"}`

	w := postJSON(r, "/api/admin/setup", `{"username":"ro","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/admin/setup", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret1")

	w = postJSON(r, "/api/admin/setup", `{"username":"second","password":"secret2"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(r, "/api/admin/login", `{"username":"root","password":"wrong!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/admin/login", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := findCookie(w.Result().Cookies(), util.AdminTokenCookie)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 24*3600, cookie.MaxAge)
	require.Len(t, sessions.m, 1)

	me := httptestRequest(r, http.MethodGet, "/api/admin/me", cookie)
	assert.Equal(t, http.StatusOK, me.Code)

	out := httptestRequest(r, http.MethodPost, "/api/auth/logout", cookie)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Empty(t, sessions.m)

	me = httptestRequest(r, http.MethodGet, "/api/admin/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}
