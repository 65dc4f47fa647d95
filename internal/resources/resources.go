package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bkscholar/scholar/internal/google"
	"github.com/bkscholar/scholar/internal/server"
)

// Resource URIs.
const (
	AuthStatusURI = "scholar://auth/status"
	StudentsURI   = "scholar://students"
)

const mimeJSON = "application/json"

// RegisterResources registers the server resources on s.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	authResource := mcp.NewResource(
		AuthStatusURI,
		"Google Authorization Status",
		mcp.WithResourceDescription("Whether Google Calendar and Drive access is authorized"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(authResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAuthStatus(ctx, request, sc)
	})

	studentsResource := mcp.NewResource(
		StudentsURI,
		"Student Directory",
		mcp.WithResourceDescription("All students in the directory, ordered by id"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(studentsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleStudents(ctx, request, sc)
	})

	return nil
}

// authStatus is the body of the auth status resource.
type authStatus struct {
	State      string `json:"state"`
	Authorized bool   `json:"authorized"`
}

func handleAuthStatus(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	state := sc.AuthState()
	return jsonContents(request.Params.URI, authStatus{
		State:      state.String(),
		Authorized: state == google.StateAuthorized,
	})
}

func handleStudents(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	repo, err := sc.Students()
	if err != nil {
		return nil, err
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read student directory: %w", err)
	}
	return jsonContents(request.Params.URI, all)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}
