package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkscholar/scholar/internal/instrumentation"
)

func newTestProvider(t *testing.T, cfg instrumentation.Config) *instrumentation.Provider {
	t.Helper()
	p, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func TestNewMetricsServer_Validation(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{})
	assert.Error(t, err)

	disabled := newTestProvider(t, instrumentation.Config{Enabled: false})
	_, err = NewMetricsServer(MetricsServerConfig{InstrumentationProvider: disabled})
	assert.Error(t, err)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	p := newTestProvider(t, instrumentation.Config{
		ServiceName:     "test",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
	})
	p.Metrics().RecordToolInvocation(context.Background(), "retrieve_students", instrumentation.StatusSuccess, time.Millisecond)

	ms, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: p})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, ms.Addr())

	rec := httptest.NewRecorder()
	ms.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mcp_tool_invocations_total")

	rec = httptest.NewRecorder()
	ms.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsServer_ServeAndShutdown(t *testing.T) {
	p := newTestProvider(t, instrumentation.Config{Enabled: true, MetricsExporter: instrumentation.ExporterPrometheus})
	ms, err := NewMetricsServer(MetricsServerConfig{Addr: "127.0.0.1:0", InstrumentationProvider: p})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ms.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == "ok"
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, ms.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
