// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
)

// stateCookie carries the OAuth state between the redirect and the callback
const (
	stateCookie = "oauth_state"
	stateMaxAge = 10 * time.Minute
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles Google sign-in and sessions
type AuthController struct {
	authService *services.AuthService
	cookie      CookieConfig
	frontendURL string
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie CookieConfig, frontendURL string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// GoogleLogin redirects to the Google consent page
// @Summary Start Google sign-in
// @Tags auth
// @Success 307 "Redirect to Google"
// @Router /auth/google [get]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	state := uuid.NewString()
	c.setCookie(ctx, stateCookie, state, int(stateMaxAge.Seconds()))
	ctx.Redirect(http.StatusTemporaryRedirect, c.authService.LoginURL(state))
}

// GoogleCallback completes Google sign-in
// @Summary Google sign-in callback
// @Description Opens a session and redirects to the dashboard, or back to the frontend on failure
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307 "Redirect to the frontend"
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	failure := c.frontendURL + "/"

	expected, err := ctx.Cookie(stateCookie)
	c.setCookie(ctx, stateCookie, "", -1)
	if err != nil || expected == "" || expected != ctx.Query("state") {
		c.logger.Warn().Msg("Google callback with missing or mismatched state")
		ctx.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}

	_, token, expiresAt, err := c.authService.CompleteGoogleLogin(ctx, code)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Google sign-in rejected")
		ctx.Redirect(http.StatusTemporaryRedirect, failure)
		return
	}

	c.setCookie(ctx, c.cookie.Name, token, int(time.Until(expiresAt).Seconds()))
	ctx.Redirect(http.StatusTemporaryRedirect, c.frontendURL+"/dashboard")
}

// Logout clears the session
// @Summary Sign out
// @Tags auth
// @Success 307 "Redirect to the frontend"
// @Router /auth/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setCookie(ctx, c.cookie.Name, "", -1)
	ctx.Redirect(http.StatusTemporaryRedirect, c.frontendURL)
}

// Me returns the signed-in user
// @Summary Current user
// @Description Returns the signed-in user, or null without a valid session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.User} "Current user or null"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, ""))
		return
	}

	user, err := c.authService.GetUserByID(ctx, userID)
	if err != nil {
		c.logger.Debug().Err(err).Str("userID", userID).Msg("Session user not found")
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, ""))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user, ""))
}

func (c *AuthController) setCookie(ctx *gin.Context, name, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, value, maxAge, "/", "", c.cookie.Secure, true)
}
