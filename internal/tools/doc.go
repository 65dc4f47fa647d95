// Package tools holds the tool registry: the fixed mapping from tool name to
// its MCP schema and handler.
//
// Handlers are registered by the calendar_tools, drive_tools and
// student_tools subpackages. The registry can be installed on an MCP server
// or dispatched to directly, which is how the handlers are exercised without
// a transport.
package tools
