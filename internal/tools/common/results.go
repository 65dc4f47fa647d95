package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/google"
	"github.com/bkscholar/scholar/internal/toolerrors"
)

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult renders err as a tool error result. Authorization failures get
// a message explaining how to authorize.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	var authErr *toolerrors.AuthenticationError
	if errors.As(err, &authErr) {
		return mcp.NewToolResultError(google.GetAuthenticationErrorMessage(err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}
