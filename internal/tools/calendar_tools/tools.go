package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/calendar"
	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/result"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/common"
)

// Tool names.
const (
	ToolListEvents     = "find_all_events_of_a_calendar"
	ToolCreateEvent    = "create_calendar_event_on_date"
	ToolDeleteEvent    = "delete_calendar_event"
	ToolAddAttendee    = "attendee_to_a_calendar_event"
	ToolRemoveAttendee = "remove_attendee_from_a_calendar_event"
)

// RegisterCalendarTools registers the calendar tools.
func RegisterCalendarTools(r *tools.Registry, sc *server.ServerContext) error {
	definitions := []struct {
		tool      mcp.Tool
		operation string
		handler   func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error)
	}{
		{
			tool: mcp.NewTool(ToolListEvents,
				mcp.WithDescription("List all events in the primary Google Calendar"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			operation: calendar.OpListEvents,
			handler:   handleListEvents,
		},
		{
			tool: mcp.NewTool(ToolCreateEvent,
				mcp.WithDescription("Create a new calendar event on a given date (format: yyyy-MM-dd) with a summary/title"),
				mcp.WithString("dateString",
					mcp.Required(),
					mcp.Description("Event date in yyyy-MM-dd format; the event starts at 14:00 Asia/Dhaka"),
				),
				mcp.WithString("summary",
					mcp.Required(),
					mcp.Description("Event title"),
				),
			),
			operation: calendar.OpCreateEvent,
			handler:   handleCreateEvent,
		},
		{
			tool: mcp.NewTool(ToolDeleteEvent,
				mcp.WithDescription("Delete a calendar event by its event ID"),
				mcp.WithString("eventId",
					mcp.Required(),
					mcp.Description("The ID of the event to delete"),
				),
				mcp.WithDestructiveHintAnnotation(true),
			),
			operation: calendar.OpDeleteEvent,
			handler:   handleDeleteEvent,
		},
		{
			tool: mcp.NewTool(ToolAddAttendee,
				mcp.WithDescription("Add a user (by email) as an attendee to a calendar event"),
				mcp.WithString("eventId",
					mcp.Required(),
					mcp.Description("The ID of the event"),
				),
				mcp.WithString("email",
					mcp.Required(),
					mcp.Description("Email address of the attendee to add"),
				),
				mcp.WithIdempotentHintAnnotation(true),
			),
			operation: calendar.OpUpdateEvent,
			handler:   handleAddAttendee,
		},
		{
			tool: mcp.NewTool(ToolRemoveAttendee,
				mcp.WithDescription("Remove a user (by email) from a calendar event's attendees"),
				mcp.WithString("eventId",
					mcp.Required(),
					mcp.Description("The ID of the event"),
				),
				mcp.WithString("email",
					mcp.Required(),
					mcp.Description("Email address of the attendee to remove"),
				),
				mcp.WithIdempotentHintAnnotation(true),
			),
			operation: calendar.OpUpdateEvent,
			handler:   handleRemoveAttendee,
		},
	}

	for _, d := range definitions {
		handler := d.handler
		wrapped := common.InstrumentedToolHandlerWithService(d.tool.Name, instrumentation.ServiceCalendar, d.operation, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handler(ctx, request, sc)
			})
		if err := r.Register(d.tool, wrapped); err != nil {
			return fmt.Errorf("failed to register %s: %w", d.tool.Name, err)
		}
	}
	return nil
}

func handleListEvents(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx)
	if err != nil {
		return common.ErrorResult("list events", err), nil
	}
	return common.JSONResult(events)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	date, err := common.RequiredString(args, "dateString")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := common.RequiredString(args, "summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := client.CreateEvent(ctx, date, summary)
	if err != nil {
		return common.ErrorResult("create event", err), nil
	}
	return common.JSONResult(event)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := common.RequiredString(request.GetArguments(), "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := client.DeleteEvent(ctx, eventID)
	if err != nil {
		return common.ErrorResult("delete event", err), nil
	}
	return common.JSONResult(res)
}

func handleAddAttendee(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return attendeeChange(ctx, request, sc, "add attendee", (*calendar.Client).AddAttendee)
}

func handleRemoveAttendee(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return attendeeChange(ctx, request, sc, "remove attendee", (*calendar.Client).RemoveAttendee)
}

type attendeeFunc func(c *calendar.Client, ctx context.Context, eventID, email string) (result.ToolResult, error)

func attendeeChange(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, action string, change attendeeFunc) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, err := common.RequiredString(args, "eventId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := common.RequiredString(args, "email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := change(client, ctx, eventID, email)
	if err != nil {
		return common.ErrorResult(action, err), nil
	}
	return common.JSONResult(res)
}
