// Package calendar exposes the calendar-domain tool operations against the
// Google Calendar API.
//
// All operations act on the caller's primary calendar. Event creation
// derives the event time span from a bare date with BuildSpan: the event
// starts at 14:00 Asia/Dhaka and lasts a random whole number of hours
// between one and four.
//
// Attendee changes are read-modify-write: the event is fetched, its attendee
// list edited in memory and the whole event written back. The read and the
// write are two separate API calls with no transactional guarantee, so a
// concurrent external edit of the same event can be overwritten (last writer
// wins). Repeating an add or remove with the same arguments is idempotent.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//	ev, err := client.CreateEvent(ctx, "2025-10-25", "Review")
package calendar
