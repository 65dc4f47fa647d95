// Package resources registers the read-only MCP resources of the server:
//
//   - scholar://auth/status: authorization state of the Google credential
//   - scholar://students: the student directory as JSON
package resources
