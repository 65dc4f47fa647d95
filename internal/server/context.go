package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"google.golang.org/api/option"

	"github.com/bkscholar/scholar/internal/calendar"
	"github.com/bkscholar/scholar/internal/drive"
	"github.com/bkscholar/scholar/internal/google"
	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/students"
)

// ErrNoStudentDirectory is returned when no student database is configured.
var ErrNoStudentDirectory = errors.New("student directory is not configured; set databasePathname in the configuration file")

// AuthStatus reports the authorization state of the Google credential.
type AuthStatus interface {
	State() google.State
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	httpClient  *http.Client
	clientOpts  []option.ClientOption
	authStatus  AuthStatus
	students    students.Repository
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger

	mu             sync.Mutex
	calendarClient *calendar.Client
	driveClient    *drive.Client
	shutdown       bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithHTTPClient sets the authenticated client used for Google APIs.
func WithHTTPClient(c *http.Client) Option {
	return func(sc *ServerContext) { sc.httpClient = c }
}

// WithGoogleClientOptions appends options applied when building the Google
// API clients.
func WithGoogleClientOptions(opts ...option.ClientOption) Option {
	return func(sc *ServerContext) { sc.clientOpts = append(sc.clientOpts, opts...) }
}

// WithAuthStatus sets the source of the authorization state.
func WithAuthStatus(s AuthStatus) Option {
	return func(sc *ServerContext) { sc.authStatus = s }
}

// WithStudentRepository sets the student directory.
func WithStudentRepository(r students.Repository) Option {
	return func(sc *ServerContext) { sc.students = r }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithAuditLogger sets the audit logger.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.auditLogger = al }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) { sc.logger = l }
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// AuthState returns the current authorization state, or
// StateUnauthenticated when unknown.
func (sc *ServerContext) AuthState() google.State {
	if sc.authStatus == nil {
		return google.StateUnauthenticated
	}
	return sc.authStatus.State()
}

// CalendarClient returns the Calendar client, creating it on first use.
func (sc *ServerContext) CalendarClient() (*calendar.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.calendarClient != nil {
		return sc.calendarClient, nil
	}
	if err := sc.usableLocked(); err != nil {
		return nil, err
	}

	client, err := calendar.NewClient(sc.ctx, sc.httpClient, sc.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}
	client.SetLogger(sc.logger)
	sc.calendarClient = client
	return client, nil
}

// DriveClient returns the Drive client, creating it on first use.
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.driveClient != nil {
		return sc.driveClient, nil
	}
	if err := sc.usableLocked(); err != nil {
		return nil, err
	}

	client, err := drive.NewClient(sc.ctx, sc.httpClient, sc.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	client.SetLogger(sc.logger)
	sc.driveClient = client
	return client, nil
}

func (sc *ServerContext) usableLocked() error {
	if sc.shutdown {
		return errors.New("server is shutting down")
	}
	if sc.httpClient == nil {
		return errors.New("no Google HTTP client configured")
	}
	return nil
}

// Students returns the student directory.
func (sc *ServerContext) Students() (students.Repository, error) {
	if sc.students == nil {
		return nil, ErrNoStudentDirectory
	}
	return sc.students, nil
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}
