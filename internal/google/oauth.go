package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/bkscholar/scholar/internal/config"
	"github.com/bkscholar/scholar/internal/toolerrors"
)

// LoadOAuthConfig reads the client secret definition from the packaged
// resources and returns an OAuth2 config requesting the required scopes.
func LoadOAuthConfig(loader config.ResourceLoader, credentialsPathname string) (*oauth2.Config, error) {
	data, err := config.ReadAll(loader, credentialsPathname)
	if err != nil {
		return nil, toolerrors.NewAuthenticationError("cannot read client secret", err)
	}

	conf, err := google.ConfigFromJSON(data, RequiredScopes...)
	if err != nil {
		return nil, toolerrors.NewAuthenticationError("invalid client secret", err)
	}
	return conf, nil
}

// NewHTTPClient returns an HTTP client that authenticates with ts.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}

// GetAuthenticationErrorMessage returns the guidance shown to the agent when
// no credential is available.
func GetAuthenticationErrorMessage(err error) string {
	return fmt.Sprintf(`Google OAuth credential is not available: %v

To authorize access run:

   scholar auth

Sign in with your Google account and grant access to Calendar and Drive.
You only need to authorize once; the credential is refreshed automatically.`, err)
}
