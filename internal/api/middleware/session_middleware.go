package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/session"
)

const sessionKey = "session"

type SessionMiddleware struct {
	cookies *session.Cookies
}

func NewSessionMiddleware(cookies *session.Cookies) *SessionMiddleware {
	return &SessionMiddleware{cookies: cookies}
}

// Load decodes the session cookie once per request. Requests without a valid
// session carry no payload.
func (m *SessionMiddleware) Load() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p := m.cookies.Read(c); p != nil {
			c.Locals(sessionKey, p)
		}
		return c.Next()
	}
}

// RequireLinkedIn rejects requests that have no authenticated session.
func (m *SessionMiddleware) RequireLinkedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Authenticated(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated with LinkedIn. Please connect first.",
			})
		}
		return c.Next()
	}
}

func Payload(c *fiber.Ctx) session.Payload {
	p, _ := c.Locals(sessionKey).(session.Payload)
	return p
}

func Authenticated(c *fiber.Ctx) *session.Authenticated {
	a, _ := Payload(c).(*session.Authenticated)
	return a
}

func OAuthPending(c *fiber.Ctx) *session.OAuthPending {
	p, _ := Payload(c).(*session.OAuthPending)
	return p
}
