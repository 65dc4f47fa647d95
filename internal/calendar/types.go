package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is the projection of a calendar event returned to tool callers.
// RevisionTag is the event's opaque etag, passed through unmodified.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	RevisionTag string `json:"revisionTag"`
}

// toEvent converts a Google Calendar event to an Event
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}
	return Event{
		ID:          event.Id,
		Title:       event.Summary,
		RevisionTag: event.Etag,
	}
}

// toEvents converts a list response, never returning nil.
func toEvents(events *calendar.Events) []Event {
	if events == nil {
		return []Event{}
	}
	out := make([]Event, 0, len(events.Items))
	for _, item := range events.Items {
		if item == nil {
			continue
		}
		out = append(out, toEvent(item))
	}
	return out
}

// eventDateTime renders t with its explicit UTC offset in EventTimeZone.
func eventDateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: EventTimeZone,
	}
}
