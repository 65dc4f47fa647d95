// Package instrumentation provides OpenTelemetry metrics and tracing for the
// scholar MCP server.
//
// # Metrics
//
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds: tool calls by
//     tool name and status
//   - google_api_operations_total / google_api_operation_duration_seconds:
//     calendar and drive calls by service, operation and status
//   - oauth_auth_total: authorization attempts by result
//   - http_requests_total / http_request_duration_seconds: requests served by
//     the streamable HTTP transport
//
// With the prometheus exporter the metrics are kept in a private registry
// and served by Provider.PrometheusHandler, normally on the dedicated
// metrics server.
//
// # Tracing
//
// Spans are created per tool invocation (tool.<name>) and per Google API
// call (google.<service>.<operation>). Tracing is off unless
// TRACING_EXPORTER selects otlp or stdout.
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: scholar)
//   - AUDIT_LOGGING_ENABLED (default: true)
//
// Stdout exporters write to stderr here, since stdout carries the stdio MCP
// stream.
package instrumentation
