package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrNoStoredCredential is returned by providers that need a persisted
// credential when none exists.
var ErrNoStoredCredential = errors.New("no stored credential")

// CredentialProvider obtains a fresh credential. stored is the currently
// persisted credential, possibly nil or expired.
type CredentialProvider interface {
	Name() string
	Authorize(ctx context.Context, stored *Credential) (*Credential, error)
}

// RefreshProvider renews a persisted credential with its refresh token. It
// never prompts the user, which makes it the only provider needed in headless
// deployments once a credential has been granted.
type RefreshProvider struct {
	config   *oauth2.Config
	required []string
}

// NewRefreshProvider creates a RefreshProvider for the given OAuth client.
func NewRefreshProvider(conf *oauth2.Config, required []string) *RefreshProvider {
	return &RefreshProvider{config: conf, required: required}
}

// Name implements CredentialProvider.
func (p *RefreshProvider) Name() string {
	return "refresh"
}

// Authorize implements CredentialProvider.
func (p *RefreshProvider) Authorize(ctx context.Context, stored *Credential) (*Credential, error) {
	if stored == nil || stored.RefreshToken == "" {
		return nil, ErrNoStoredCredential
	}
	if !stored.CoversScopes(p.required) {
		return nil, fmt.Errorf("stored credential lacks required scopes (granted: %v)", stored.Scopes)
	}

	// Drop the access token so the oauth2 package always goes to the token
	// endpoint instead of returning the stale token.
	expired := stored.Token()
	expired.AccessToken = ""

	tok, err := p.config.TokenSource(ctx, expired).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return NewCredential(tok, stored.Scopes), nil
}
