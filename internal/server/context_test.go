package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/bkscholar/scholar/internal/google"
	"github.com/bkscholar/scholar/internal/students"
)

type stubAuth struct{ state google.State }

func (s stubAuth) State() google.State { return s.state }

type stubRepo struct{}

func (stubRepo) FindByID(context.Context, int64) (*students.Student, error) {
	return nil, students.ErrNotFound
}
func (stubRepo) FindAll(context.Context) ([]students.Student, error) { return []students.Student{}, nil }

func TestServerContext_LazyClients(t *testing.T) {
	sc := NewServerContext(context.Background(),
		WithHTTPClient(http.DefaultClient),
		WithGoogleClientOptions(option.WithEndpoint("http://127.0.0.1:1/")),
	)
	defer sc.Shutdown()

	cal1, err := sc.CalendarClient()
	require.NoError(t, err)
	cal2, err := sc.CalendarClient()
	require.NoError(t, err)
	assert.Same(t, cal1, cal2)

	drv1, err := sc.DriveClient()
	require.NoError(t, err)
	drv2, err := sc.DriveClient()
	require.NoError(t, err)
	assert.Same(t, drv1, drv2)
}

func TestServerContext_NoHTTPClient(t *testing.T) {
	sc := NewServerContext(context.Background())
	defer sc.Shutdown()

	_, err := sc.CalendarClient()
	assert.Error(t, err)
	_, err = sc.DriveClient()
	assert.Error(t, err)
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), WithHTTPClient(http.DefaultClient))

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	_, err := sc.DriveClient()
	assert.Error(t, err)
}

func TestServerContext_Students(t *testing.T) {
	sc := NewServerContext(context.Background())
	_, err := sc.Students()
	assert.True(t, errors.Is(err, ErrNoStudentDirectory))

	sc = NewServerContext(context.Background(), WithStudentRepository(stubRepo{}))
	repo, err := sc.Students()
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestServerContext_AuthState(t *testing.T) {
	assert.Equal(t, google.StateUnauthenticated, NewServerContext(context.Background()).AuthState())

	sc := NewServerContext(context.Background(), WithAuthStatus(stubAuth{google.StateAuthorized}))
	assert.Equal(t, google.StateAuthorized, sc.AuthState())
}
