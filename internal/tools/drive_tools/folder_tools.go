package drive_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/drive"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/common"
)

func registerFolderTools(r *tools.Registry, sc *server.ServerContext) error {
	listTool := mcp.NewTool(ToolListFiles,
		mcp.WithDescription("List all files and folders directly inside a Google Drive folder"),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("ID of the folder to list; use 'root' for My Drive"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	if err := register(r, sc, listTool, drive.OpListFiles, handleListFiles); err != nil {
		return err
	}

	createTool := mcp.NewTool(ToolCreateFolder,
		mcp.WithDescription("Create a new folder inside a parent folder"),
		mcp.WithString("parentFolderId",
			mcp.Required(),
			mcp.Description("ID of the parent folder"),
		),
		mcp.WithString("folderName",
			mcp.Required(),
			mcp.Description("Name of the new folder"),
		),
	)
	return register(r, sc, createTool, drive.OpCreateFolder, handleCreateFolder)
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	folderID, err := common.RequiredString(request.GetArguments(), "folderId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getDriveClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	items, err := client.ListChildren(ctx, folderID)
	if err != nil {
		return common.ErrorResult("list files", err), nil
	}
	return common.JSONResult(items)
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	parentID, err := common.RequiredString(args, "parentFolderId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequiredString(args, "folderName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getDriveClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	res, err := client.CreateFolder(ctx, parentID, name)
	if err != nil {
		return common.ErrorResult("create folder", err), nil
	}
	return common.JSONResult(res)
}
