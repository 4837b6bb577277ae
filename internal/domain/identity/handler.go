package identity

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/auth"
	"github.com/alignwork/api/internal/platform/middleware"
	"github.com/alignwork/api/internal/platform/token"
)

const maxPhotoBytes = 5 << 20

var allowedPhotoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type Handler struct {
	svc     *Service
	tokens  *token.Service
	cookies auth.CookieConfig
	photos  PhotoStore

	loginLimiter    *middleware.Limiter
	registerLimiter *middleware.Limiter
}

func NewHandler(svc *Service, tokens *token.Service, cookies auth.CookieConfig, photos PhotoStore, loginLimiter, registerLimiter *middleware.Limiter) *Handler {
	return &Handler{
		svc:             svc,
		tokens:          tokens,
		cookies:         cookies,
		photos:          photos,
		loginLimiter:    loginLimiter,
		registerLimiter: registerLimiter,
	}
}

// RegisterRoutes wires the auth endpoints onto authGroup and the profile
// endpoints onto usersGroup. session must be the required-session middleware.
func (h *Handler) RegisterRoutes(authGroup, usersGroup *echo.Group, session echo.MiddlewareFunc) {
	authGroup.POST("/register", h.Register, h.registerLimiter.Middleware())
	authGroup.POST("/login", h.Login, h.loginLimiter.Middleware())
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me, session)

	usersGroup.GET("/me", h.Me, session)
	usersGroup.PATCH("/me", h.UpdateProfile, session)
	usersGroup.POST("/me/profile-photo", h.UploadPhoto, session)
	usersGroup.DELETE("/me/profile-photo", h.DeletePhoto, session)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	_, pair, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	auth.SetSessionCookies(c, pair.AccessToken, pair.RefreshToken, h.tokens.AccessTTL(), h.tokens.RefreshTTL(), h.cookies)
	return c.JSON(http.StatusCreated, pair)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	_, pair, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	auth.SetSessionCookies(c, pair.AccessToken, pair.RefreshToken, h.tokens.AccessTTL(), h.tokens.RefreshTTL(), h.cookies)
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(auth.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return apperr.Unauthenticated("refresh token not found")
	}
	_, pair, err := h.svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}
	auth.SetSessionCookies(c, pair.AccessToken, pair.RefreshToken, h.tokens.AccessTTL(), h.tokens.RefreshTTL(), h.cookies)
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) Logout(c echo.Context) error {
	auth.ClearSessionCookies(c, h.cookies)
	return c.JSON(http.StatusOK, map[string]string{"message": "successfully logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	acct := auth.AccountFromContext(c.Request().Context())
	u, err := h.svc.Get(c.Request().Context(), acct.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	acct := auth.AccountFromContext(c.Request().Context())
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), acct.ID, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UploadPhoto(c echo.Context) error {
	acct := auth.AccountFromContext(c.Request().Context())

	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.ValidationField("file", "required", "file is required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedPhotoExts[ext] {
		return apperr.ValidationField("file", "unsupported_format", "file must be PNG or JPG")
	}
	if fh.Size > maxPhotoBytes {
		return apperr.ValidationField("file", "too_large", "file exceeds the 5MB limit")
	}

	src, err := fh.Open()
	if err != nil {
		return apperr.Internal(err)
	}
	defer src.Close()

	// Replace any previous photo so orphaned files do not accumulate.
	previous, err := h.svc.RemoveProfilePhoto(c.Request().Context(), acct.ID)
	if err != nil {
		return err
	}
	if previous != "" {
		if err := h.photos.Remove(c.Request().Context(), previous); err != nil {
			return apperr.Internal(err)
		}
	}

	filename := fmt.Sprintf("%d_%s%s", acct.ID, uuid.NewString()[:8], ext)
	url, err := h.photos.Save(c.Request().Context(), filename, src)
	if err != nil {
		return apperr.Internal(err)
	}

	if _, err := h.svc.SetProfilePhoto(c.Request().Context(), acct.ID, url); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"profile_photo_url": url})
}

func (h *Handler) DeletePhoto(c echo.Context) error {
	acct := auth.AccountFromContext(c.Request().Context())

	previous, err := h.svc.RemoveProfilePhoto(c.Request().Context(), acct.ID)
	if err != nil {
		return err
	}
	if previous != "" {
		if err := h.photos.Remove(c.Request().Context(), previous); err != nil {
			return apperr.Internal(err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
