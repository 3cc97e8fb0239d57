package service

import (
	"time"

	"golang.org/x/oauth2"
)

func GetExpiresAt(now time.Time, expiresIn int) time.Time {
	return now.Add(time.Duration(expiresIn) * time.Second)
}

// TokenExpiry returns when tok stops being valid. Tokens without any expiry
// information are given fallback from now.
func TokenExpiry(tok *oauth2.Token, now time.Time, fallback time.Duration) time.Time {
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return GetExpiresAt(now, int(v))
		}
	case int:
		if v > 0 {
			return GetExpiresAt(now, v)
		}
	}
	return now.Add(fallback)
}
