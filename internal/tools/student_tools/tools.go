package student_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bkscholar/scholar/internal/instrumentation"
	"github.com/bkscholar/scholar/internal/server"
	"github.com/bkscholar/scholar/internal/students"
	"github.com/bkscholar/scholar/internal/tools"
	"github.com/bkscholar/scholar/internal/tools/common"
)

// Tool names.
const (
	ToolFindStudent      = "find_a_student"
	ToolRetrieveStudents = "retrieve_students"
)

// Operation names used for metrics and audit logging.
const (
	OpFindStudent  = "find_student"
	OpListStudents = "list_students"
)

// RegisterStudentTools registers the student directory tools.
func RegisterStudentTools(r *tools.Registry, sc *server.ServerContext) error {
	findTool := mcp.NewTool(ToolFindStudent,
		mcp.WithDescription("Find a single student by id"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric student id"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	if err := r.Register(findTool, common.InstrumentedToolHandlerWithService(
		ToolFindStudent, instrumentation.ServiceStudents, OpFindStudent, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindStudent(ctx, request, sc)
		})); err != nil {
		return fmt.Errorf("failed to register %s: %w", ToolFindStudent, err)
	}

	listTool := mcp.NewTool(ToolRetrieveStudents,
		mcp.WithDescription("Retrieve all students ordered by id"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	if err := r.Register(listTool, common.InstrumentedToolHandlerWithService(
		ToolRetrieveStudents, instrumentation.ServiceStudents, OpListStudents, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRetrieveStudents(ctx, request, sc)
		})); err != nil {
		return fmt.Errorf("failed to register %s: %w", ToolRetrieveStudents, err)
	}

	return nil
}

func handleFindStudent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := common.RequiredInt64(request.GetArguments(), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	repo, err := sc.Students()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	student, err := repo.FindByID(ctx, id)
	if errors.Is(err, students.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No student with id %d", id)), nil
	}
	if err != nil {
		return common.ErrorResult("find student", err), nil
	}
	return common.JSONResult(student)
}

func handleRetrieveStudents(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	repo, err := sc.Students()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		return common.ErrorResult("retrieve students", err), nil
	}
	return common.JSONResult(all)
}
