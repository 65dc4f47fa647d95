package calendar_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
)

// eventStore serves a fixed set of events on the primary calendar.
type eventStore struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	deleted []string
	updates int
}

func (s *eventStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const prefix = "/calendars/primary/events"
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case id == "" && r.Method == http.MethodGet:
		items := []*calendar.Event{}
		for _, ev := range s.events {
			items = append(items, ev)
		}
		_ = json.NewEncoder(w).Encode(&calendar.Events{Items: items})
	case id == "" && r.Method == http.MethodPost:
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = "created1"
		ev.Etag = `"1"`
		s.events[ev.Id] = &ev
		_ = json.NewEncoder(w).Encode(&ev)
	case s.events[id] == nil:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(s.events[id])
	case r.Method == http.MethodPut:
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = id
		s.events[id] = &ev
		s.updates++
		_ = json.NewEncoder(w).Encode(&ev)
	case r.Method == http.MethodDelete:
		delete(s.events, id)
		s.deleted = append(s.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func setup(t *testing.T) (*tools.Registry, *eventStore) {
	t.Helper()
	store := &eventStore{events: map[string]*calendar.Event{
		"evt1": {Id: "evt1", Summary: "Thesis review", Etag: `"a"`,
			Attendees: []*calendar.EventAttendee{{Email: "Prof@Uni.edu"}}},
	}}
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	sc := server.NewServerContext(context.Background(),
		server.WithHTTPClient(srv.Client()),
		server.WithGoogleClientOptions(option.WithEndpoint(srv.URL+"/")),
	)
	t.Cleanup(func() { _ = sc.Shutdown() })

	r := tools.NewRegistry()
	require.NoError(t, RegisterCalendarTools(r, sc))
	return r, store
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	r, _ := setup(t)
	assert.Equal(t, []string{
		ToolAddAttendee,
		ToolCreateEvent,
		ToolDeleteEvent,
		ToolListEvents,
		ToolRemoveAttendee,
	}, r.Names())

	tool, ok := r.Tool(ToolCreateEvent)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"dateString", "summary"}, tool.InputSchema.Required)
}

func TestListEvents(t *testing.T) {
	r, _ := setup(t)

	res, err := r.Dispatch(context.Background(), ToolListEvents, nil)
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt1", events[0]["id"])
	assert.Equal(t, "Thesis review", events[0]["title"])
}

func TestCreateEvent(t *testing.T) {
	r, store := setup(t)

	res, err := r.Dispatch(context.Background(), ToolCreateEvent, map[string]any{
		"dateString": "2025-10-25",
		"summary":    "Defense rehearsal",
	})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), `"id": "created1"`)

	created := store.events["created1"]
	require.NotNil(t, created)
	assert.Equal(t, "2025-10-25T14:00:00+06:00", created.Start.DateTime)
	assert.Equal(t, "Asia/Dhaka", created.Start.TimeZone)
}

func TestCreateEvent_Invalid(t *testing.T) {
	r, store := setup(t)

	tests := []map[string]any{
		{"summary": "x"},
		{"dateString": "2025-10-25"},
		{"dateString": "25/10/2025", "summary": "x"},
	}
	for _, args := range tests {
		res, err := r.Dispatch(context.Background(), ToolCreateEvent, args)
		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
	}
	assert.Len(t, store.events, 1)
}

func TestDeleteEvent(t *testing.T) {
	r, store := setup(t)

	res, err := r.Dispatch(context.Background(), ToolDeleteEvent, map[string]any{"eventId": "evt1"})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, []string{"evt1"}, store.deleted)
	assert.Contains(t, text(t, res), `"subjectId": "evt1"`)

	res, err = r.Dispatch(context.Background(), ToolDeleteEvent, map[string]any{"eventId": "missing"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "Failed to delete event")
}

func TestAttendees(t *testing.T) {
	r, store := setup(t)
	ctx := context.Background()

	res, err := r.Dispatch(ctx, ToolAddAttendee, map[string]any{"eventId": "evt1", "email": "student@uni.edu"})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), `"label": "student@uni.edu"`)
	assert.Equal(t, 1, store.updates)

	// Matching ignores case, so no second write.
	res, err = r.Dispatch(ctx, ToolAddAttendee, map[string]any{"eventId": "evt1", "email": "STUDENT@uni.edu"})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, 1, store.updates)

	res, err = r.Dispatch(ctx, ToolRemoveAttendee, map[string]any{"eventId": "evt1", "email": "prof@uni.edu"})
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, 2, store.updates)
	require.Len(t, store.events["evt1"].Attendees, 1)
	assert.Equal(t, "student@uni.edu", store.events["evt1"].Attendees[0].Email)

	res, err = r.Dispatch(ctx, ToolRemoveAttendee, map[string]any{"eventId": "evt1"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNoHTTPClient(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	r := tools.NewRegistry()
	require.NoError(t, RegisterCalendarTools(r, sc))

	res, err := r.Dispatch(context.Background(), ToolListEvents, nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
