package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bkscholar/scholar/internal/logging"
	"github.com/bkscholar/scholar/internal/result"
	"github.com/bkscholar/scholar/internal/toolerrors"
)

const (
	// PrimaryCalendarID is the calendar every operation acts on.
	PrimaryCalendarID = "primary"

	// EventLocation is stamped on every created event.
	EventLocation = "Dhaka/Bangladesh"
)

// Operation names carried by ExternalServiceError.
const (
	OpListEvents  = "list_events"
	OpCreateEvent = "create_event"
	OpDeleteEvent = "delete_event"
	OpGetEvent    = "get_event"
	OpUpdateEvent = "update_event"
)

// Client wraps the Google Calendar service. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	svc        *calendar.Service
	calendarID string
	spans      *SpanBuilder
	logger     *slog.Logger
}

// NewClient creates a Calendar client that authenticates through httpClient.
// Extra options are applied after the HTTP client, which lets tests point
// the service at a fake endpoint.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	spans, err := NewSpanBuilder()
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:        svc,
		calendarID: PrimaryCalendarID,
		spans:      spans,
		logger:     logging.WithService(slog.Default(), "calendar"),
	}, nil
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logging.WithService(logger, "calendar")
	}
}

// ListEvents returns the events of the primary calendar in service order,
// across all result pages.
// An empty calendar yields an empty, non-nil slice.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	events := []Event{}
	err := c.svc.Events.List(c.calendarID).Pages(ctx, func(page *calendar.Events) error {
		events = append(events, toEvents(page)...)
		return nil
	})
	if err != nil {
		return nil, toolerrors.NewExternalServiceError(OpListEvents, c.calendarID, err)
	}
	return events, nil
}

// CreateEvent creates an event titled title on date (YYYY-MM-DD). The date
// is validated before any remote call is made.
func (c *Client) CreateEvent(ctx context.Context, date, title string) (*Event, error) {
	span, err := c.spans.Build(date)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:  title,
		Location: EventLocation,
		Start:    eventDateTime(span.Start),
		End:      eventDateTime(span.End),
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, toolerrors.NewExternalServiceError(OpCreateEvent, c.calendarID, err)
	}

	c.logger.Debug("event created",
		logging.Operation(OpCreateEvent),
		logging.Target(created.Id),
		slog.Duration("length", span.Duration()))

	ev := toEvent(created)
	return &ev, nil
}

// DeleteEvent deletes the event. A missing event is an ExternalServiceError
// for which toolerrors.IsNotFound reports true.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (result.ToolResult, error) {
	if eventID == "" {
		return result.ToolResult{}, toolerrors.NewValidationError("eventId", eventID, nil)
	}

	if err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return result.ToolResult{}, toolerrors.NewExternalServiceError(OpDeleteEvent, eventID, err)
	}

	return result.New(eventID, result.LabelEvent, result.MessageEventDeleted), nil
}

// AddAttendee adds email to the event's attendees unless an attendee with
// the same address, compared case-insensitively, is already present. In that
// case nothing is written.
func (c *Client) AddAttendee(ctx context.Context, eventID, email string) (result.ToolResult, error) {
	event, err := c.getEvent(ctx, eventID, email)
	if err != nil {
		return result.ToolResult{}, err
	}

	if findAttendee(event.Attendees, email) >= 0 {
		return result.New(eventID, email, result.MessageAttendeePresent), nil
	}

	event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	if _, err := c.updateEvent(ctx, eventID, event); err != nil {
		return result.ToolResult{}, err
	}

	c.logger.Info("attendee added",
		logging.Operation(OpUpdateEvent),
		logging.Target(eventID),
		logging.UserHash(email))

	return result.New(eventID, email, result.MessageAttendeeAdded), nil
}

// RemoveAttendee removes every attendee whose address equals email,
// compared case-insensitively. When none match nothing is written.
func (c *Client) RemoveAttendee(ctx context.Context, eventID, email string) (result.ToolResult, error) {
	event, err := c.getEvent(ctx, eventID, email)
	if err != nil {
		return result.ToolResult{}, err
	}

	if findAttendee(event.Attendees, email) < 0 {
		return result.New(eventID, email, result.MessageAttendeeMissing), nil
	}

	kept := make([]*calendar.EventAttendee, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		if a != nil && strings.EqualFold(a.Email, email) {
			continue
		}
		kept = append(kept, a)
	}
	event.Attendees = kept
	// An emptied list must still be sent so the service clears it.
	if len(kept) == 0 {
		event.ForceSendFields = append(event.ForceSendFields, "Attendees")
	}

	if _, err := c.updateEvent(ctx, eventID, event); err != nil {
		return result.ToolResult{}, err
	}

	c.logger.Info("attendee removed",
		logging.Operation(OpUpdateEvent),
		logging.Target(eventID),
		logging.UserHash(email))

	return result.New(eventID, email, result.MessageAttendeeRemoved), nil
}

func (c *Client) getEvent(ctx context.Context, eventID, email string) (*calendar.Event, error) {
	if eventID == "" {
		return nil, toolerrors.NewValidationError("eventId", eventID, nil)
	}
	if email == "" {
		return nil, toolerrors.NewValidationError("email", email, nil)
	}

	event, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, toolerrors.NewExternalServiceError(OpGetEvent, eventID, err)
	}
	return event, nil
}

func (c *Client) updateEvent(ctx context.Context, eventID string, event *calendar.Event) (*calendar.Event, error) {
	updated, err := c.svc.Events.Update(c.calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, toolerrors.NewExternalServiceError(OpUpdateEvent, eventID, err)
	}
	return updated, nil
}

// findAttendee returns the index of the first attendee whose address equals
// email ignoring case, or -1.
func findAttendee(attendees []*calendar.EventAttendee, email string) int {
	for i, a := range attendees {
		if a != nil && strings.EqualFold(a.Email, email) {
			return i
		}
	}
	return -1
}
