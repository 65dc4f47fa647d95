package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkscholar/scholar/internal/config"
	"github.com/bkscholar/scholar/internal/google"
	"github.com/bkscholar/scholar/internal/logging"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/calendar_tools"
	"github.com/bkscholar/scholar/internal/tools/drive_tools"
	"github.com/bkscholar/scholar/internal/tools/student_tools"
)

// DefaultResourcesDir is where the packaged resources live when neither
// --resources nor SCHOLAR_RESOURCES is set.
const DefaultResourcesDir = "resources"

type globalOptions struct {
	resources  string
	configFile string
	debug      bool
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.resources, "resources", "", "Directory holding the packaged resources (client secret, configuration). Can also use SCHOLAR_RESOURCES env var.")
	cmd.PersistentFlags().StringVar(&o.configFile, "config-file", config.DefaultFile, "Properties file inside the resources directory")
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "Enable debug logging")
}

// resourcesDir applies the environment fallback and the default.
func (o *globalOptions) resourcesDir() string {
	if o.resources != "" {
		return o.resources
	}
	if dir := os.Getenv("SCHOLAR_RESOURCES"); dir != "" {
		return dir
	}
	return DefaultResourcesDir
}

// newLogger returns the process logger. Logs go to w, never to stdout, which
// carries the stdio transport.
func (o *globalOptions) newLogger(w io.Writer) *slog.Logger {
	logger := logging.New(w, o.debug)
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads the properties file through the resource loader.
func (o *globalOptions) loadConfig() (*config.Config, config.ResourceLoader, error) {
	loader := config.NewDirLoader(o.resourcesDir())
	cfg, err := config.Load(loader, o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, loader, nil
}

type credentialOptions struct {
	headless bool
	prompt   io.Writer
	logger   *slog.Logger
	recorder google.AuthRecorder
}

// newCredentialManager wires the credential store and providers. The refresh
// provider always comes first; the interactive provider is skipped when
// headless. The client secret and token directory are read on first use, so
// a broken setup fails tool calls instead of startup.
func newCredentialManager(cfg *config.Config, loader config.ResourceLoader, opts credentialOptions) *google.CredentialManager {
	setup := func() (google.CredentialStore, []google.CredentialProvider, error) {
		oauthConfig, err := google.LoadOAuthConfig(loader, cfg.CredentialsPathname)
		if err != nil {
			return nil, nil, err
		}

		store, err := google.NewFileCredentialStore(cfg.TokenPathname)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
		}

		providers := []google.CredentialProvider{
			google.NewRefreshProvider(oauthConfig, google.RequiredScopes),
		}
		if !opts.headless {
			interactiveOpts := []google.InteractiveOption{google.WithInteractiveLogger(opts.logger)}
			if opts.prompt != nil {
				interactiveOpts = append(interactiveOpts, google.WithPromptWriter(opts.prompt))
			}
			providers = append(providers, google.NewInteractiveProvider(oauthConfig, interactiveOpts...))
		}
		return store, providers, nil
	}

	managerOpts := []google.ManagerOption{google.WithLogger(opts.logger)}
	if opts.recorder != nil {
		managerOpts = append(managerOpts, google.WithAuthRecorder(opts.recorder))
	}
	return google.NewLazyCredentialManager(setup, managerOpts...)
}

// registerAllTools registers every tool group on r.
func registerAllTools(r *tools.Registry, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func(*tools.Registry, *server.ServerContext) error
	}{
		{name: "Calendar", register: calendar_tools.RegisterCalendarTools},
		{name: "Drive", register: drive_tools.RegisterDriveTools},
		{name: "Students", register: student_tools.RegisterStudentTools},
	}

	for _, reg := range registrations {
		if err := reg.register(r, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}
	return nil
}

// shutdownContext bounds graceful shutdown after the serve context is done.
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
}
