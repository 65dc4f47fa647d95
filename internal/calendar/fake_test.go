package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const eventsPath = "/calendars/primary/events"

// fakeCalendar is an in-memory stand-in for the Calendar v3 events API.
type fakeCalendar struct {
	mu       sync.Mutex
	events   map[string]*calendar.Event
	order    []string
	nextID   int
	requests int
	writes   int
	inserted []*calendar.Event
	status   int // forced error status for every request when non-zero
	pageSize int // list page size when non-zero
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: map[string]*calendar.Event{}}
}

func (f *fakeCalendar) seed(ev *calendar.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.Etag == "" {
		ev.Etag = fmt.Sprintf(`"%s-0"`, ev.Id)
	}
	f.events[ev.Id] = ev
	f.order = append(f.order, ev.Id)
}

func (f *fakeCalendar) get(id string) *calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id]
}

func (f *fakeCalendar) stats() (requests, writes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests, f.writes
}

func writeError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, code, http.StatusText(code))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	if f.status != 0 {
		writeError(w, f.status)
		return
	}
	if !strings.HasPrefix(r.URL.Path, eventsPath) {
		writeError(w, http.StatusNotFound)
		return
	}
	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, eventsPath), "/")

	switch {
	case id == "" && r.Method == http.MethodGet:
		items := make([]*calendar.Event, 0, len(f.order))
		for _, eid := range f.order {
			if ev, ok := f.events[eid]; ok {
				items = append(items, ev)
			}
		}
		start, end, next := pageBounds(r.URL.Query().Get("pageToken"), len(items), f.pageSize)
		writeJSON(w, &calendar.Events{Items: items[start:end], NextPageToken: next})

	case id == "" && r.Method == http.MethodPost:
		var ev calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		f.nextID++
		f.writes++
		ev.Id = fmt.Sprintf("evt%d", f.nextID)
		ev.Etag = fmt.Sprintf(`"%s-1"`, ev.Id)
		stored := ev
		f.events[ev.Id] = &stored
		f.order = append(f.order, ev.Id)
		f.inserted = append(f.inserted, &stored)
		writeJSON(w, &stored)

	case id != "":
		existing, ok := f.events[id]
		if !ok {
			writeError(w, http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, existing)
		case http.MethodPut:
			var ev calendar.Event
			if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
				writeError(w, http.StatusBadRequest)
				return
			}
			f.writes++
			ev.Id = id
			ev.Etag = fmt.Sprintf(`"%s-%d"`, id, f.writes+1)
			f.events[id] = &ev
			writeJSON(w, &ev)
		case http.MethodDelete:
			f.writes++
			delete(f.events, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed)
		}

	default:
		writeError(w, http.StatusMethodNotAllowed)
	}
}

// pageBounds splits total items into pages of size, using the item offset as
// the page token. A size of zero serves everything in one page.
func pageBounds(token string, total, size int) (start, end int, next string) {
	if token != "" {
		start, _ = strconv.Atoi(token)
	}
	if start > total {
		start = total
	}
	end = total
	if size > 0 && start+size < total {
		end = start + size
		next = strconv.Itoa(end)
	}
	return start, end, next
}

// newTestClient returns a Client talking to fake, with a fixed event length.
func newTestClient(t *testing.T, fake *fakeCalendar, hours int) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	c.spans.pickHours = func() int { return hours }
	return c
}
