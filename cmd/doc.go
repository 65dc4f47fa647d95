// Package cmd implements the command-line interface for scholar.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the calendar, drive and student tools
//   - auth: Authorize Google access once, interactively, and store the credential
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
