package calendar

import (
	"fmt"
	"math/rand/v2"
	"time"
	_ "time/tzdata" // Asia/Dhaka must resolve on hosts without zoneinfo

	"github.com/bkscholar/scholar/internal/toolerrors"
)

const (
	// EventTimeZone anchors every created event.
	EventTimeZone = "Asia/Dhaka"

	// EventStartHour is the local start hour of every created event.
	EventStartHour = 14

	// MinEventHours and MaxEventHours bound the random event length, inclusive.
	MinEventHours = 1
	MaxEventHours = 4

	// DateLayout is the accepted date format (YYYY-MM-DD).
	DateLayout = time.DateOnly
)

// TimeSpan is the start and end of an event. End is always after Start.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SpanBuilder synthesizes event spans from calendar dates.
type SpanBuilder struct {
	loc       *time.Location
	pickHours func() int
}

// NewSpanBuilder returns a builder anchored to EventTimeZone with a uniformly
// random duration in [MinEventHours, MaxEventHours].
func NewSpanBuilder() (*SpanBuilder, error) {
	loc, err := time.LoadLocation(EventTimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", EventTimeZone, err)
	}
	return &SpanBuilder{loc: loc, pickHours: randomHours}, nil
}

func randomHours() int {
	return MinEventHours + rand.IntN(MaxEventHours-MinEventHours+1)
}

// Build returns the span for date, which must be in YYYY-MM-DD form.
func (b *SpanBuilder) Build(date string) (TimeSpan, error) {
	day, err := time.ParseInLocation(DateLayout, date, b.loc)
	if err != nil {
		return TimeSpan{}, toolerrors.NewValidationError("dateString", date, err)
	}

	hours := b.pickHours()
	if hours < MinEventHours || hours > MaxEventHours {
		return TimeSpan{}, fmt.Errorf("event length %dh outside [%d,%d]", hours, MinEventHours, MaxEventHours)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), EventStartHour, 0, 0, 0, b.loc)
	return TimeSpan{
		Start: start,
		End:   start.Add(time.Duration(hours) * time.Hour),
	}, nil
}

// BuildSpan builds a span for date with a fresh SpanBuilder.
func BuildSpan(date string) (TimeSpan, error) {
	b, err := NewSpanBuilder()
	if err != nil {
		return TimeSpan{}, err
	}
	return b.Build(date)
}
