package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
)

func TestServeOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    serveOptions
		wantErr string
	}{
		{
			name: "stdio",
			opts: serveOptions{transport: TransportStdio, metrics: MetricsConfig{Enabled: true, Addr: ":9090"}},
		},
		{
			name: "streamable http",
			opts: serveOptions{transport: TransportStreamableHTTP, httpAddr: ":8080"},
		},
		{
			name:    "unknown transport",
			opts:    serveOptions{transport: "sse"},
			wantErr: "unsupported transport type: sse",
		},
		{
			name:    "http without address",
			opts:    serveOptions{transport: TransportStreamableHTTP},
			wantErr: "--http-addr",
		},
		{
			name:    "metrics without address",
			opts:    serveOptions{transport: TransportStdio, metrics: MetricsConfig{Enabled: true}},
			wantErr: "--metrics-addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyServeEnv(t *testing.T) {
	t.Setenv("SCHOLAR_HEADLESS", "true")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("METRICS_ADDR", ":9191")

	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	var opts serveOptions
	opts.metrics.Enabled = true
	applyServeEnv(cmd, &opts)
	assert.True(t, opts.headless)
	assert.False(t, opts.metrics.Enabled)
	assert.Equal(t, ":9191", opts.metrics.Addr)
}

func TestApplyServeEnv_FlagWins(t *testing.T) {
	t.Setenv("METRICS_ADDR", ":9191")

	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--metrics-addr", ":7000"}))

	opts := serveOptions{metrics: MetricsConfig{Addr: ":7000"}}
	applyServeEnv(cmd, &opts)
	assert.Equal(t, ":7000", opts.metrics.Addr)
}

func TestRegisterAllTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	defer func() { _ = sc.Shutdown() }()

	r := tools.NewRegistry()
	require.NoError(t, registerAllTools(r, sc))

	assert.Equal(t, []string{
		"attendee_to_a_calendar_event",
		"create_calendar_event_on_date",
		"create_new_file",
		"create_new_folder",
		"delete_calendar_event",
		"delete_folder_file_by_name",
		"find_a_student",
		"find_all_events_of_a_calendar",
		"list_all_files_and_folders",
		"remove_attendee_from_a_calendar_event",
		"retrieve_students",
	}, r.Names())

	for _, name := range r.Names() {
		assert.NotEqual(t, "Other", getCategoryFromToolName(name), name)
	}
}

func TestRunGenerateDocs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tools.md")
	require.NoError(t, runGenerateDocs(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	md := string(data)

	assert.True(t, strings.HasPrefix(md, "# MCP Tools Reference"))
	assert.Contains(t, md, "## Google Calendar Tools")
	assert.Contains(t, md, "### create_calendar_event_on_date")
	assert.Contains(t, md, "- `dateString` (string, required): ")
	assert.Contains(t, md, "- `fileContent` (string, optional): ")
	assert.Contains(t, md, "- `id` (number, required): ")
}

func TestGlobalOptions_ResourcesDir(t *testing.T) {
	t.Setenv("SCHOLAR_RESOURCES", "")
	assert.Equal(t, DefaultResourcesDir, (&globalOptions{}).resourcesDir())

	t.Setenv("SCHOLAR_RESOURCES", "/etc/scholar")
	assert.Equal(t, "/etc/scholar", (&globalOptions{}).resourcesDir())
	assert.Equal(t, "/opt/res", (&globalOptions{resources: "/opt/res"}).resourcesDir())
}

func TestGlobalOptions_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "googletools.txt"),
		[]byte("credentialsPathname=/credentials.json\ntokenPathname=tokens\n"), 0o600))

	opts := &globalOptions{resources: dir, configFile: "googletools.txt"}
	cfg, loader, err := opts.loadConfig()
	require.NoError(t, err)
	assert.NotNil(t, loader)
	assert.Equal(t, "tokens", cfg.TokenPathname)

	opts.configFile = "missing.txt"
	_, _, err = opts.loadConfig()
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "auth", "version", "generate-docs"} {
		assert.True(t, names[want], want)
	}
}
