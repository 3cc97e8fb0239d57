package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/api/middleware"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/session"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	s       service.LinkedInService
	cfg     config.Config
	cookies *session.Cookies
	m       *metrics.Metrics
	log     *logrus.Logger
	now     func() time.Time
}

func NewAuthHandler(cfg config.Config, service service.LinkedInService, cookies *session.Cookies, m *metrics.Metrics, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg, cookies: cookies, m: m, log: log, now: time.Now}
}

// Login starts the OAuth flow. The signed state carries a nonce that must
// match the one held in the short-lived pending cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.cfg.LinkedInConfigured() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "LinkedIn client ID not configured",
		})
	}

	nonce := uuid.NewString()
	state, err := utils.GenerateStateToken(h.cfg.SessionSecret, nonce, session.OAuthStateMaxAge)
	if err != nil {
		h.log.WithError(err).Error("Failed to sign OAuth state")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start LinkedIn authentication",
		})
	}

	pending := &session.OAuthPending{State: nonce, Expires: h.now().Add(session.OAuthStateMaxAge)}
	if err := h.cookies.Set(c, pending, session.OAuthStateMaxAge); err != nil {
		h.log.WithError(err).Error("Failed to set OAuth state cookie")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start LinkedIn authentication",
		})
	}

	return c.Redirect(h.s.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if providerErr := c.Query("error"); providerErr != "" {
		h.log.WithFields(logrus.Fields{
			"error":       providerErr,
			"description": c.Query("error_description"),
		}).Warn("LinkedIn authorization denied")
		return h.failCallback(c, providerErr)
	}

	pending := middleware.OAuthPending(c)
	claims, err := utils.ValidateStateToken(h.cfg.SessionSecret, c.Query("state"))
	if pending == nil || err != nil || claims.Nonce != pending.State {
		return h.failCallback(c, "state_mismatch")
	}

	token, err := h.s.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		h.log.WithError(err).Error("LinkedIn token exchange failed")
		return h.failCallback(c, "token_exchange_failed")
	}

	info, err := h.s.UserInfo(c.Context(), token.AccessToken)
	if err != nil {
		h.log.WithError(err).Error("LinkedIn profile fetch failed")
		return h.failCallback(c, "profile_fetch_failed")
	}

	now := h.now()
	maxAge, ok := session.AuthenticatedMaxAge(service.TokenExpiry(token, now, session.DefaultMaxAge).Sub(now))
	if !ok {
		h.log.WithField("expiry", token.Expiry).Warn("LinkedIn returned an expired token")
		return h.failCallback(c, "token_expired")
	}
	authenticated := &session.Authenticated{
		AccessToken: token.AccessToken,
		Expires:     now.Add(maxAge),
		Profile: session.Profile{
			ID:      info.Sub,
			Name:    info.Name,
			Email:   info.Email,
			Picture: info.Picture,
		},
	}
	if err := h.cookies.Set(c, authenticated, maxAge); err != nil {
		h.log.WithError(err).Error("Failed to set session cookie")
		return h.failCallback(c, "server_error")
	}

	h.m.OAuthCallbacks.WithLabelValues("connected").Inc()
	return c.Redirect(h.frontendURL("linkedin_connected", "true"), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) failCallback(c *fiber.Ctx, reason string) error {
	h.m.OAuthCallbacks.WithLabelValues(reason).Inc()
	h.cookies.Clear(c)
	return c.Redirect(h.frontendURL("linkedin_error", reason), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) frontendURL(key, value string) string {
	return h.cfg.FrontendURL + "?" + url.Values{key: {value}}.Encode()
}

func (h *AuthHandler) Status(c *fiber.Ctx) error {
	auth := middleware.Authenticated(c)
	if auth == nil {
		return c.JSON(fiber.Map{"connected": false})
	}
	return c.JSON(fiber.Map{
		"connected": true,
		"profile":   auth.Profile,
	})
}

func (h *AuthHandler) Disconnect(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"success": true})
}
