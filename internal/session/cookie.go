package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultMaxAge    = 24 * time.Hour
	OAuthStateMaxAge = 10 * time.Minute
)

// Cookies moves payloads in and out of the session cookie.
type Cookies struct {
	codec  *Codec
	name   string
	secure bool
	now    func() time.Time
}

func NewCookies(codec *Codec, name string, secure bool) *Cookies {
	return &Cookies{codec: codec, name: name, secure: secure, now: time.Now}
}

func (m *Cookies) Name() string { return m.name }

// Set writes p with the given lifetime. A non-positive maxAge uses DefaultMaxAge.
func (m *Cookies) Set(c *fiber.Ctx, p Payload, maxAge time.Duration) error {
	value, err := m.codec.Encode(p)
	if err != nil {
		return err
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	c.Cookie(m.cookie(value, int(maxAge/time.Second), time.Time{}))
	return nil
}

func (m *Cookies) Clear(c *fiber.Ctx) {
	c.Cookie(m.cookie("", -1, time.Unix(0, 0)))
}

// Read decodes the request cookie. Missing, invalid and expired cookies all
// yield nil.
func (m *Cookies) Read(c *fiber.Ctx) Payload {
	return m.codec.Read(c.Cookies(m.name), m.now())
}

func (m *Cookies) cookie(value string, maxAge int, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// AuthenticatedMaxAge bounds the cookie lifetime by the token lifetime. A
// token that has already expired yields false.
func AuthenticatedMaxAge(tokenLifetime time.Duration) (time.Duration, bool) {
	if tokenLifetime <= 0 {
		return 0, false
	}
	return min(tokenLifetime, DefaultMaxAge), true
}
