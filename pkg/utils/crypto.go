package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

const (
	nonceSize = 12
	tagSize   = 16
)

var (
	ErrMissingKey         = errors.New("encryption key is not configured")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// tokenEncoding rejects non-canonical trailing bits so that every altered
// character changes the decoded bytes.
var tokenEncoding = base64.RawURLEncoding.Strict()

// DeriveKey hashes secret into a 256-bit AES key. An empty secret yields nil.
func DeriveKey(secret string) []byte {
	if secret == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Encrypt seals plaintext with AES-GCM and returns nonce || tag || ciphertext
// encoded as unpadded base64url.
func Encrypt(plaintext, key []byte) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal returns ciphertext || tag.
	sealed := aesGCM.Seal(nil, nonce, plaintext, nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	out := make([]byte, 0, nonceSize+len(sealed))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ciphertext...)

	return tokenEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. The tag is verified before any plaintext is returned.
func Decrypt(encryptedData string, key []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	data, err := tokenEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, err
	}
	if len(data) < nonceSize+tagSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, tag, ciphertext := data[:nonceSize], data[nonceSize:nonceSize+tagSize], data[nonceSize+tagSize:]

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	return aesGCM.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}
