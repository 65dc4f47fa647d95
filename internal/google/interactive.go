package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/bkscholar/scholar/internal/logging"
)

const (
	// DefaultAuthorizationTimeout bounds how long the interactive flow waits
	// for the user to complete consent.
	DefaultAuthorizationTimeout = 5 * time.Minute

	callbackPath = "/Callback"
)

// InteractiveProvider runs the installed-app authorization code flow: it
// starts a temporary loopback listener, opens the consent page in the
// browser and exchanges the returned code for tokens.
type InteractiveProvider struct {
	config     *oauth2.Config
	listenAddr string
	timeout    time.Duration
	openURL    func(url string) error
	prompt     io.Writer
	logger     *slog.Logger
}

// InteractiveOption configures an InteractiveProvider.
type InteractiveOption func(*InteractiveProvider)

// WithListenAddr sets the loopback address of the callback listener.
func WithListenAddr(addr string) InteractiveOption {
	return func(p *InteractiveProvider) { p.listenAddr = addr }
}

// WithAuthorizationTimeout sets how long to wait for the user.
func WithAuthorizationTimeout(d time.Duration) InteractiveOption {
	return func(p *InteractiveProvider) { p.timeout = d }
}

// WithURLOpener replaces the browser launcher.
func WithURLOpener(open func(url string) error) InteractiveOption {
	return func(p *InteractiveProvider) { p.openURL = open }
}

// WithPromptWriter sets where the consent URL is printed.
func WithPromptWriter(w io.Writer) InteractiveOption {
	return func(p *InteractiveProvider) { p.prompt = w }
}

// WithInteractiveLogger sets the logger.
func WithInteractiveLogger(logger *slog.Logger) InteractiveOption {
	return func(p *InteractiveProvider) { p.logger = logger }
}

// NewInteractiveProvider creates an InteractiveProvider for the OAuth client.
func NewInteractiveProvider(conf *oauth2.Config, opts ...InteractiveOption) *InteractiveProvider {
	p := &InteractiveProvider{
		config:     conf,
		listenAddr: "127.0.0.1:0",
		timeout:    DefaultAuthorizationTimeout,
		openURL:    browser.OpenURL,
		prompt:     os.Stderr,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements CredentialProvider.
func (p *InteractiveProvider) Name() string {
	return "interactive"
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements CredentialProvider. The stored credential is ignored.
func (p *InteractiveProvider) Authorize(ctx context.Context, _ *Credential) (*Credential, error) {
	ln, err := net.Listen("tcp", p.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	conf := *p.config
	conf.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), callbackPath)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r, state)
		if res.err != nil {
			http.Error(w, "Authorization failed: "+res.err.Error(), http.StatusBadRequest)
		} else {
			_, _ = io.WriteString(w, "Authorization complete. You may close this window.\n")
		}
		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Warn("authorization callback listener stopped", logging.Err(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(p.prompt, "Open the following URL in your browser to authorize access:\n\n%s\n\n", authURL)
	if err := p.openURL(authURL); err != nil {
		p.logger.Warn("failed to open browser, visit the URL manually", logging.Err(err))
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		return nil, fmt.Errorf("timed out waiting for authorization: %w", waitCtx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(waitCtx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return NewCredential(tok, conf.Scopes), nil
}

func parseCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return callbackResult{err: fmt.Errorf("authorization denied: %s", e)}
	}
	if q.Get("state") != state {
		return callbackResult{err: errors.New("state mismatch in authorization callback")}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: errors.New("authorization callback without code")}
	}
	return callbackResult{code: code}
}
