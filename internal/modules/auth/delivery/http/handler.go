package handler

import (
	"fmt"
	"net/http"
	"net/url"

	auth "anoa.com/socialblog/internal/modules/auth/service"
	"anoa.com/socialblog/internal/middleware"
	"anoa.com/socialblog/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	authService auth.AuthService
	profiles    auth.PrincipalSyncer
	frontendURL string
	secure      bool
	log         *zap.Logger
}

func NewAuthHandler(authService auth.AuthService, profiles auth.PrincipalSyncer, frontendURL string, secure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		profiles:    profiles,
		frontendURL: frontendURL,
		secure:      secure,
		log:         log,
	}
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", h.secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authService.GoogleLogin(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code not found"})
		return
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.secure, true)

	res, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("google sign-in failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error="+url.QueryEscape("sign-in failed"))
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?token=%s&expires_in=%d", h.frontendURL, url.QueryEscape(res.AccessToken), res.ExpiresIn)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func (h *AuthHandler) Me(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, principal)
}

// Sync re-runs profile sync for the current principal. It always succeeds.
func (h *AuthHandler) Sync(c *gin.Context) {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.profiles.SyncPrincipal(c.Request.Context(), principal)
	c.Status(http.StatusNoContent)
}
