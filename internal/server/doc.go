// Package server holds the runtime state shared by the MCP tool handlers and
// the HTTP surfaces around them.
//
// ServerContext owns the authenticated HTTP client and builds the Calendar
// and Drive clients from it on first use. Credential acquisition is deferred
// to the first Google request, so a server can start without a stored
// credential.
//
// The package also provides the streamable HTTP transport server with its
// health endpoints, and the dedicated Prometheus metrics server.
package server
