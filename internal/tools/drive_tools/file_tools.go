package drive_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/drive"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/common"
)

func registerFileTools(r *tools.Registry, sc *server.ServerContext) error {
	createTool := mcp.NewTool(ToolCreateFile,
		mcp.WithDescription("Create a new plain-text file with the given content inside a parent folder"),
		mcp.WithString("parentFolderId",
			mcp.Required(),
			mcp.Description("ID of the parent folder"),
		),
		mcp.WithString("fileName",
			mcp.Required(),
			mcp.Description("Name of the new file"),
		),
		mcp.WithString("fileContent",
			mcp.Description("Text content of the file; may be empty"),
		),
	)
	if err := register(r, sc, createTool, drive.OpCreateFile, handleCreateFile); err != nil {
		return err
	}

	deleteTool := mcp.NewTool(ToolDeleteByName,
		mcp.WithDescription("Delete a file or folder by name from a parent folder"),
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("ID of the parent folder"),
		),
		mcp.WithString("itemName",
			mcp.Required(),
			mcp.Description("Exact name of the file or folder to delete"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	return register(r, sc, deleteTool, drive.OpDeleteFile, handleDeleteByName)
}

func handleCreateFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	parentID, err := common.RequiredString(args, "parentFolderId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequiredString(args, "fileName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := common.OptionalString(args, "fileContent")

	client, errResult := getDriveClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	res, err := client.CreateFile(ctx, parentID, name, content)
	if err != nil {
		return common.ErrorResult("create file", err), nil
	}
	return common.JSONResult(res)
}

func handleDeleteByName(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	parentID, err := common.RequiredString(args, "parentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequiredString(args, "itemName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := getDriveClient(sc)
	if errResult != nil {
		return errResult, nil
	}

	res, err := client.DeleteByName(ctx, parentID, name)
	if err != nil {
		return common.ErrorResult("delete item", err), nil
	}
	return common.JSONResult(res)
}
