// Package google manages the delegated-access credential used to call the
// Google Calendar and Drive APIs.
//
// A CredentialManager hands out a ready-to-use credential. It reads the
// persisted credential from a CredentialStore and, when that is missing,
// expired or lacks a required scope, runs its CredentialProvider chain once
// (single-flight) no matter how many tool calls are waiting:
//
//   - RefreshProvider exchanges the stored refresh token for a new access
//     token without user interaction.
//   - InteractiveProvider runs the installed-app consent flow through the
//     browser with a temporary loopback listener.
//
// Headless deployments configure only the RefreshProvider so they fail fast
// with an AuthenticationError instead of waiting for a browser.
//
// The manager also implements oauth2.TokenSource through TokenSource, so the
// API clients obtain the credential on every request and token refresh stays
// inside the oauth2 package.
package google
