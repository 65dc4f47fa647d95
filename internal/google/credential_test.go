package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestNewCredential_GrantedScopes(t *testing.T) {
	tok := (&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
	}).WithExtra(map[string]interface{}{
		"scope": RequiredScopes[0] + " " + RequiredScopes[1],
	})

	cred := NewCredential(tok, []string{"ignored"})
	assert.Equal(t, RequiredScopes, cred.Scopes)
	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
}

func TestNewCredential_FallsBackToRequested(t *testing.T) {
	cred := NewCredential(&oauth2.Token{AccessToken: "a"}, RequiredScopes)
	assert.Equal(t, RequiredScopes, cred.Scopes)
	assert.True(t, cred.CoversScopes(RequiredScopes))
}

func TestCredential_Expired(t *testing.T) {
	now := time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"zero expiry never expires", time.Time{}, false},
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Minute), true},
		{"within expiry delta", now.Add(5 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Credential{AccessToken: "a", Expiry: tt.expiry}
			assert.Equal(t, tt.want, c.Expired(now))
		})
	}
}

func TestCredential_Usable(t *testing.T) {
	now := time.Now()
	valid := &Credential{AccessToken: "a", Scopes: RequiredScopes, Expiry: now.Add(time.Hour)}

	assert.True(t, valid.Usable(now, RequiredScopes))
	assert.False(t, (*Credential)(nil).Usable(now, RequiredScopes))
	assert.False(t, (&Credential{Scopes: RequiredScopes}).Usable(now, RequiredScopes))
	assert.False(t, (&Credential{AccessToken: "a", Scopes: RequiredScopes[:1]}).Usable(now, RequiredScopes))
}

func TestCredential_Token(t *testing.T) {
	c := &Credential{AccessToken: "a", RefreshToken: "r"}
	tok := c.Token()
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "r", tok.RefreshToken)
}
