package google

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// expiryDelta matches the oauth2 package: a token this close to expiry is
// treated as expired.
const expiryDelta = 10 * time.Second

// Credential is a persisted delegated-access grant. Values are never mutated
// after construction; callers may share them freely.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// NewCredential builds a Credential from an oauth2 token. Granted scopes are
// taken from the token response's "scope" field when present, otherwise the
// requested scopes are assumed.
func NewCredential(tok *oauth2.Token, requested []string) *Credential {
	scopes := grantedScopes(tok)
	if len(scopes) == 0 {
		scopes = slices.Clone(requested)
	}
	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scopes:       scopes,
		Expiry:       tok.Expiry,
	}
}

func grantedScopes(tok *oauth2.Token) []string {
	raw, ok := tok.Extra("scope").(string)
	if !ok {
		return nil
	}
	return strings.Fields(raw)
}

// Token converts the credential to an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    tokenType,
		Expiry:       c.Expiry,
	}
}

// Expired reports whether the access token is expired at now. A zero expiry
// never expires.
func (c *Credential) Expired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return c.Expiry.Round(0).Add(-expiryDelta).Before(now)
}

// CoversScopes reports whether every required scope was granted.
func (c *Credential) CoversScopes(required []string) bool {
	for _, scope := range required {
		if !slices.Contains(c.Scopes, scope) {
			return false
		}
	}
	return true
}

// Usable reports whether the credential can be used as-is at now.
func (c *Credential) Usable(now time.Time, required []string) bool {
	return c != nil && c.AccessToken != "" && !c.Expired(now) && c.CoversScopes(required)
}
