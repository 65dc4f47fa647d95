package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// queryPattern accepts exactly the two query shapes the client builds.
var queryPattern = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)' in parents(?: and name = '((?:[^'\\]|\\.)*)')? and trashed = false$`)

var queryUnescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`)

type storedFile struct {
	file    drive.File
	content string
	ctype   string
	trashed bool
}

// fakeDrive is an in-memory stand-in for the Drive v3 files API.
type fakeDrive struct {
	mu      sync.Mutex
	files   []*storedFile
	nextID  int
	queries []string
	fields  []string
	deleted []string
	tokens  []string
	status  int
	// pageSize limits list responses when non-zero.
	pageSize int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{}
}

func (f *fakeDrive) seed(id, name, mimeType string, parents ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, &storedFile{file: drive.File{Id: id, Name: name, MimeType: mimeType, Parents: parents}})
}

func (f *fakeDrive) trash(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sf := range f.files {
		if sf.file.Id == id {
			sf.trashed = true
		}
	}
}

func (f *fakeDrive) find(id string) *storedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sf := range f.files {
		if sf.file.Id == id {
			return sf
		}
	}
	return nil
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

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		writeError(w, f.status)
		return
	}

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		f.list(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/files"):
		f.create(w, r)
	case r.Method == http.MethodDelete && strings.Contains(r.URL.Path, "/files/"):
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		for i, sf := range f.files {
			if sf.file.Id == id {
				f.files = append(f.files[:i], f.files[i+1:]...)
				f.deleted = append(f.deleted, id)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound)
	default:
		writeError(w, http.StatusMethodNotAllowed)
	}
}

func (f *fakeDrive) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	f.queries = append(f.queries, q)
	f.fields = append(f.fields, r.URL.Query().Get("fields"))
	f.tokens = append(f.tokens, r.URL.Query().Get("pageToken"))

	m := queryPattern.FindStringSubmatch(q)
	if m == nil {
		writeError(w, http.StatusBadRequest)
		return
	}
	parent := queryUnescaper.Replace(m[1])
	byName := strings.Contains(q, " and name = ")
	name := queryUnescaper.Replace(m[2])

	out := &drive.FileList{Files: []*drive.File{}}
	for _, sf := range f.files {
		if sf.trashed || !contains(sf.file.Parents, parent) {
			continue
		}
		if byName && sf.file.Name != name {
			continue
		}
		file := sf.file
		out.Files = append(out.Files, &file)
	}
	start, end, next := pageBounds(r.URL.Query().Get("pageToken"), len(out.Files), f.pageSize)
	out.Files, out.NextPageToken = out.Files[start:end], next
	writeJSON(w, out)
}

func (f *fakeDrive) create(w http.ResponseWriter, r *http.Request) {
	sf := &storedFile{}
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(r.Body, params["boundary"])
		meta, err := mr.NextPart()
		if err != nil || json.NewDecoder(meta).Decode(&sf.file) != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		media, err := mr.NextPart()
		if err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(media)
		sf.content = string(body)
		sf.ctype = media.Header.Get("Content-Type")
	} else if err := json.NewDecoder(r.Body).Decode(&sf.file); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	f.nextID++
	sf.file.Id = fmt.Sprintf("id%d", f.nextID)
	f.files = append(f.files, sf)
	writeJSON(w, &drive.File{Id: sf.file.Id, Name: sf.file.Name})
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

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newTestClient(t *testing.T, fake *fakeDrive) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}
