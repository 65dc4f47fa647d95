package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/drive"
	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/common"
)

// Tool names.
const (
	ToolListFiles    = "list_all_files_and_folders"
	ToolCreateFolder = "create_new_folder"
	ToolCreateFile   = "create_new_file"
	ToolDeleteByName = "delete_folder_file_by_name"
)

// RegisterDriveTools registers all Google Drive tools.
func RegisterDriveTools(r *tools.Registry, sc *server.ServerContext) error {
	if err := registerFolderTools(r, sc); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}
	if err := registerFileTools(r, sc); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}
	return nil
}

// getDriveClient returns the shared Drive client or a tool error result.
func getDriveClient(sc *server.ServerContext) (*drive.Client, *mcp.CallToolResult) {
	client, err := sc.DriveClient()
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return client, nil
}

func register(r *tools.Registry, sc *server.ServerContext, tool mcp.Tool, operation string,
	handler func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error)) error {
	return r.Register(tool, common.InstrumentedToolHandlerWithService(tool.Name, instrumentation.ServiceDrive, operation, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, request, sc)
		}))
}
