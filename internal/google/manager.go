package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/logging"
	"github.com/bkscholar/scholar/internal/toolerrors"
)

// State is the authorization state of a CredentialManager.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthorizing
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthorizing:
		return "authorizing"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Authorization results passed to AuthRecorder.
const (
	AuthResultSuccess = instrumentation.OAuthResultSuccess
	AuthResultFailure = instrumentation.OAuthResultFailure
)

// AuthRecorder records authorization attempts. *instrumentation.Metrics
// satisfies it.
type AuthRecorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
}

const acquireKey = "credential"

// Setup builds the credential store and providers. It runs on first use so
// that unreadable client secrets or token directories surface as
// authentication failures of the calls that need a credential.
type Setup func() (CredentialStore, []CredentialProvider, error)

// CredentialManager supplies a ready-to-use credential. Reads of an already
// obtained credential run concurrently; acquisition runs at most once at a
// time and concurrent callers share its result.
type CredentialManager struct {
	setup     Setup
	store     CredentialStore
	providers []CredentialProvider
	required  []string
	logger    *slog.Logger
	recorder  AuthRecorder
	now       func() time.Time

	group singleflight.Group

	setupMu  sync.Mutex
	peekOnce sync.Once

	mu      sync.RWMutex
	current *Credential
	state   State
}

// ManagerOption configures a CredentialManager.
type ManagerOption func(*CredentialManager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *CredentialManager) { m.logger = logger }
}

// WithAuthRecorder records authorization attempts.
func WithAuthRecorder(r AuthRecorder) ManagerOption {
	return func(m *CredentialManager) { m.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *CredentialManager) { m.now = now }
}

// WithRequiredScopes overrides RequiredScopes.
func WithRequiredScopes(scopes []string) ManagerOption {
	return func(m *CredentialManager) { m.required = scopes }
}

// NewCredentialManager creates a manager that tries providers in order when
// the stored credential cannot be used.
func NewCredentialManager(store CredentialStore, providers []CredentialProvider, opts ...ManagerOption) *CredentialManager {
	m := &CredentialManager{
		store:     store,
		providers: providers,
		required:  RequiredScopes,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewLazyCredentialManager creates a manager whose store and providers are
// built by setup when first needed. A failing setup is retried on the next
// call.
func NewLazyCredentialManager(setup Setup, opts ...ManagerOption) *CredentialManager {
	m := NewCredentialManager(nil, nil, opts...)
	m.setup = setup
	return m
}

// State returns the current authorization state. The first call looks at the
// stored credential without authorizing, so a usable stored credential is
// reported as authorized before any tool has run.
func (m *CredentialManager) State() State {
	m.peekOnce.Do(m.peekStored)

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *CredentialManager) peekStored() {
	store, _, err := m.resolve()
	if err != nil {
		m.logger.Debug("credential storage not ready", logging.Err(err))
		return
	}
	stored, err := store.Load()
	if err != nil || !stored.Usable(m.now(), m.required) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil && m.state == StateUnauthenticated {
		m.current = stored
		m.state = StateAuthorized
	}
}

// resolve runs setup once it succeeds and returns the store and providers.
func (m *CredentialManager) resolve() (CredentialStore, []CredentialProvider, error) {
	m.setupMu.Lock()
	defer m.setupMu.Unlock()

	if m.setup != nil {
		store, providers, err := m.setup()
		if err != nil {
			var authErr *toolerrors.AuthenticationError
			if errors.As(err, &authErr) {
				return nil, nil, err
			}
			return nil, nil, toolerrors.NewAuthenticationError("cannot prepare credential storage", err)
		}
		m.store, m.providers, m.setup = store, providers, nil
	}
	if m.store == nil {
		return nil, nil, toolerrors.NewAuthenticationError("no credential store configured", nil)
	}
	return m.store, m.providers, nil
}

// ObtainCredential returns a usable credential, authorizing if needed.
// Failures are reported as *toolerrors.AuthenticationError.
func (m *CredentialManager) ObtainCredential(ctx context.Context) (*Credential, error) {
	if cred := m.cached(); cred != nil {
		return cred, nil
	}

	// The flow outlives any single caller: others may be waiting on it.
	ch := m.group.DoChan(acquireKey, func() (interface{}, error) {
		return m.acquire(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, toolerrors.NewAuthenticationError("credential acquisition cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Credential), nil
	}
}

func (m *CredentialManager) cached() *Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.Usable(m.now(), m.required) {
		return m.current
	}
	return nil
}

func (m *CredentialManager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *CredentialManager) setCurrent(cred *Credential) {
	m.mu.Lock()
	m.current = cred
	m.state = StateAuthorized
	m.mu.Unlock()
}

func (m *CredentialManager) acquire(ctx context.Context) (*Credential, error) {
	// Another flight may have finished between the fast path and here.
	if cred := m.cached(); cred != nil {
		return cred, nil
	}

	store, providers, err := m.resolve()
	if err != nil {
		m.record(ctx, AuthResultFailure)
		return nil, err
	}

	stored, err := store.Load()
	if err != nil {
		m.record(ctx, AuthResultFailure)
		return nil, toolerrors.NewAuthenticationError("cannot read stored credential", err)
	}
	if stored.Usable(m.now(), m.required) {
		m.setCurrent(stored)
		return stored, nil
	}

	m.setState(StateAuthorizing)
	m.logger.Info("authorizing Google access", "stored_credential", stored != nil)

	if len(providers) == 0 {
		m.setState(StateUnauthenticated)
		m.record(ctx, AuthResultFailure)
		return nil, toolerrors.NewAuthenticationError("no credential provider configured", nil)
	}

	var errs []error
	for _, p := range providers {
		cred, err := p.Authorize(ctx, stored)
		if err != nil {
			m.logger.Debug("credential provider failed", "provider", p.Name(), logging.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if !cred.CoversScopes(m.required) {
			errs = append(errs, fmt.Errorf("%s: granted scopes %v do not cover %v", p.Name(), cred.Scopes, m.required))
			continue
		}

		if err := store.Save(cred); err != nil {
			m.setState(StateUnauthenticated)
			m.record(ctx, AuthResultFailure)
			return nil, toolerrors.NewAuthenticationError("cannot persist credential", err)
		}

		m.setCurrent(cred)
		m.record(ctx, AuthResultSuccess)
		m.logger.Info("Google access authorized",
			"provider", p.Name(),
			"expiry", cred.Expiry,
			"access_token", logging.SanitizeToken(cred.AccessToken))
		return cred, nil
	}

	m.setState(StateUnauthenticated)
	m.record(ctx, AuthResultFailure)
	return nil, toolerrors.NewAuthenticationError("no credential provider succeeded", errors.Join(errs...))
}

func (m *CredentialManager) record(ctx context.Context, result string) {
	if m.recorder != nil {
		m.recorder.RecordOAuthAuth(ctx, result)
	}
}

// TokenSource adapts the manager to oauth2.TokenSource. Each call obtains the
// credential through the manager, so expired tokens are refreshed and
// persisted once even when many requests race.
func (m *CredentialManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, m: m}
}

// HTTPClient returns an HTTP client authenticated by the manager.
func (m *CredentialManager) HTTPClient(ctx context.Context) *http.Client {
	return NewHTTPClient(ctx, m.TokenSource(ctx))
}

type managerTokenSource struct {
	ctx context.Context
	m   *CredentialManager
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	cred, err := s.m.ObtainCredential(s.ctx)
	if err != nil {
		return nil, err
	}
	return cred.Token(), nil
}
