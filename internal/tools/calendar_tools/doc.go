// Package calendar_tools exposes the calendar operations as MCP tools:
// listing, creating and deleting events on the primary calendar and adding
// or removing attendees.
package calendar_tools
