// Package session seals small JSON payloads into cookie values and reads them
// back. Any failure to open a value is reported to callers as "no session".
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
)

var (
	// ErrInvalidSession covers every reason a cookie value could not be
	// opened, understood or still honoured.
	ErrInvalidSession = errors.New("invalid session")
)

// Codec encrypts with a key derived from a single server secret. It is safe
// for concurrent use.
type Codec struct {
	key []byte
}

// NewCodec derives the key from secret. With an empty secret every
// encryption fails and every decryption yields no session.
func NewCodec(secret string) *Codec {
	return &Codec{key: utils.DeriveKey(secret)}
}

func (c *Codec) Seal(plaintext []byte) (string, error) {
	return utils.Encrypt(plaintext, c.key)
}

func (c *Codec) Open(token string) ([]byte, error) {
	return utils.Decrypt(token, c.key)
}

// EncryptToCookieValue serializes v as JSON and seals it.
func (c *Codec) EncryptToCookieValue(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return c.Seal(plaintext)
}

// DecryptFromCookieValue returns the verified JSON document, or nil.
func (c *Codec) DecryptFromCookieValue(token string) json.RawMessage {
	plaintext, err := c.Open(token)
	if err != nil || !json.Valid(plaintext) {
		return nil
	}
	return plaintext
}

func (c *Codec) Encode(p Payload) (string, error) {
	w, ok := toWire(p)
	if !ok {
		return "", fmt.Errorf("unsupported session payload %T", p)
	}
	return c.EncryptToCookieValue(w)
}

// Decode opens token and returns the typed payload. Every failure, expiry
// against now included, is ErrInvalidSession.
func (c *Codec) Decode(token string, now time.Time) (Payload, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	plaintext, err := c.Open(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	var w wirePayload
	if err := json.Unmarshal(plaintext, &w); err != nil {
		return nil, ErrInvalidSession
	}
	p, ok := w.payload()
	if !ok {
		return nil, ErrInvalidSession
	}
	if !now.Before(p.ExpiresAt()) {
		return nil, ErrInvalidSession
	}
	return p, nil
}

// Read is Decode without the reason: a valid unexpired payload or nil.
func (c *Codec) Read(token string, now time.Time) Payload {
	p, err := c.Decode(token, now)
	if err != nil {
		return nil
	}
	return p
}
