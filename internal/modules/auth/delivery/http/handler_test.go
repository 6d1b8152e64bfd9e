package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/socialblog/internal/entity"
	authDto "anoa.com/socialblog/internal/modules/auth/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth struct {
	lastState string
	err       error
}

func (s *stubAuth) GoogleLogin(state string) string {
	s.lastState = state
	return "https://accounts.example.com/o?state=" + state
}

func (s *stubAuth) GoogleCallback(context.Context, string) (*authDto.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &authDto.AuthResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 60}, nil
}

func (s *stubAuth) Establish(context.Context, entity.Principal) (*authDto.AuthResponse, error) {
	return nil, nil
}

type countingSyncer struct{ ids []string }

func (s *countingSyncer) SyncPrincipal(_ context.Context, p entity.Principal) { s.ids = append(s.ids, p.ID) }

func newRouter(svc *stubAuth, syncer *countingSyncer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc, syncer, "http://front", false, zap.NewNop())

	r := gin.New()
	r.GET("/login", h.GoogleLogin)
	r.GET("/callback", h.GoogleCallback)
	authed := r.Group("/", func(c *gin.Context) {
		c.Set("principal", entity.Principal{ID: "google:1"})
		c.Next()
	})
	authed.POST("/sync", h.Sync)
	authed.GET("/me", h.Me)
	return r
}

func TestGoogleLoginAndCallback(t *testing.T) {
	svc := &stubAuth{}
	r := newRouter(svc, &countingSyncer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.NotEmpty(t, svc.lastState)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	t.Run("state mismatch", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?code=c&state=other", nil)
		req.AddCookie(cookies[0])
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?code=c&state="+svc.lastState, nil)
		req.AddCookie(cookies[0])
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "http://front/auth/callback?token=tok&expires_in=60", w.Header().Get("Location"))
	})

	t.Run("provider failure", func(t *testing.T) {
		svc.err = errors.New("exchange failed")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?code=c&state="+svc.lastState, nil)
		req.AddCookie(cookies[0])
		r.ServeHTTP(w, req)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "http://front/login?error="))
	})
}

func TestSyncAndMe(t *testing.T) {
	syncer := &countingSyncer{}
	r := newRouter(&stubAuth{}, syncer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"google:1"}, syncer.ids)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"google:1"}`, w.Body.String())
}
