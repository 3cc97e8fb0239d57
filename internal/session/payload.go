package session

import "time"

// Payload is the decoded session cookie: either *OAuthPending or *Authenticated.
type Payload interface {
	ExpiresAt() time.Time
	isPayload()
}

// OAuthPending carries the state nonce between the authorization redirect
// and the callback.
type OAuthPending struct {
	State   string
	Expires time.Time
}

func (p *OAuthPending) ExpiresAt() time.Time { return p.Expires }
func (*OAuthPending) isPayload() {}

type Authenticated struct {
	AccessToken string
	Expires     time.Time
	Profile     Profile
}

func (p *Authenticated) ExpiresAt() time.Time { return p.Expires }
func (*Authenticated) isPayload() {}

type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// wirePayload is the JSON stored inside the cookie. expiresAt is epoch
// milliseconds.
type wirePayload struct {
	OAuthState  string   `json:"oauthState,omitempty"`
	AccessToken string   `json:"accessToken,omitempty"`
	ExpiresAt   int64    `json:"expiresAt"`
	Profile     *Profile `json:"profile,omitempty"`
}

func toWire(p Payload) (wirePayload, bool) {
	switch v := p.(type) {
	case *OAuthPending:
		return wirePayload{OAuthState: v.State, ExpiresAt: v.Expires.UnixMilli()}, true
	case *Authenticated:
		profile := v.Profile
		return wirePayload{AccessToken: v.AccessToken, ExpiresAt: v.Expires.UnixMilli(), Profile: &profile}, true
	}
	return wirePayload{}, false
}

func (w wirePayload) payload() (Payload, bool) {
	if w.ExpiresAt <= 0 {
		return nil, false
	}
	expires := time.UnixMilli(w.ExpiresAt)
	switch {
	case w.AccessToken != "":
		a := &Authenticated{AccessToken: w.AccessToken, Expires: expires}
		if w.Profile != nil {
			a.Profile = *w.Profile
		}
		return a, true
	case w.OAuthState != "":
		return &OAuthPending{State: w.OAuthState, Expires: expires}, true
	}
	return nil, false
}
