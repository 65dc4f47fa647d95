// Package student_tools exposes the read-only student directory as MCP tools.
package student_tools
