package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

const stateIssuer = "linkedin-scheduler"

// GenerateStateToken signs an OAuth state value carrying nonce.
func GenerateStateToken(secretKey, nonce string, tokenDuration time.Duration) (string, error) {
	if secretKey == "" {
		return "", ErrMissingKey
	}
	now := time.Now()
	claims := transfer.StateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    stateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func ValidateStateToken(secretKey, tokenString string) (*transfer.StateClaims, error) {
	if secretKey == "" {
		return nil, ErrMissingKey
	}
	token, err := jwt.ParseWithClaims(tokenString, &transfer.StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(stateIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.StateClaims); ok && token.Valid && claims.Nonce != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
